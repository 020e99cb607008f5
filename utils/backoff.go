// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package utils holds small shared helpers for relayers and signer
// services.
package utils

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/luxfi/log"
)

// WithRetriesTimeout runs the operation under exponential backoff until it
// succeeds or the timeout elapses. Transient failures are logged at warn
// level between attempts.
func WithRetriesTimeout(
	logger log.Logger,
	operation backoff.Operation,
	timeout time.Duration,
) error {
	expBackOff := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(timeout),
	)
	notify := func(err error, _ time.Duration) {
		logger.Warn("operation failed, retrying", log.Err(err))
	}
	return backoff.RetryNotify(operation, expBackOff, notify)
}
