// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import "errors"

// Envelope validation errors.
var (
	ErrSenderTooLong        = errors.New("sender address too long")
	ErrRecipientTooLong     = errors.New("recipient address too long")
	ErrOnChainDataTooLarge  = errors.New("on-chain data too large")
	ErrOffChainDataTooLarge = errors.New("off-chain data too large")
	ErrEmptyRecipient       = errors.New("empty recipient address")
	ErrEmptyChainData       = errors.New("empty chain data")
	ErrTxIDTooLarge         = errors.New("tx id exceeds 128 bits")
	ErrNilTxID              = errors.New("tx id is nil")
	ErrInvalidDigest        = errors.New("invalid message digest")
)

// Signature authorization errors.
var (
	ErrTooFewSignatures               = errors.New("too few signatures provided")
	ErrTooManySignatures              = errors.New("too many signatures provided")
	ErrInvalidSignature               = errors.New("invalid signature")
	ErrDuplicateSigner                = errors.New("duplicate signer")
	ErrUnauthorizedSigner             = errors.New("unauthorized signer")
	ErrInsufficientPlatformSignatures = errors.New("platform signature threshold not met")
	ErrInsufficientChainSignatures    = errors.New("chain signature threshold not met")
	ErrInsufficientProjectSignatures  = errors.New("project signature threshold not met")
)

// Registry errors.
var (
	ErrEmptySignerSet         = errors.New("signer set is empty")
	ErrTooManySigners         = errors.New("too many signers")
	ErrSignerNotFound         = errors.New("signer not found")
	ErrInvalidThreshold       = errors.New("invalid threshold configuration")
	ErrThresholdTooHigh       = errors.New("threshold exceeds signer count")
	ErrThresholdUnsatisfiable = errors.New("removal would leave threshold unsatisfiable")
	ErrRegistryDisabled       = errors.New("signer registry is disabled")
	ErrRegistryExists         = errors.New("signer registry already exists")
	ErrRegistryNotFound       = errors.New("signer registry not found")
	ErrUnauthorizedAuthority  = errors.New("unauthorized authority")
)

// Replay-protection and configuration errors.
var (
	ErrAlreadyClaimed     = errors.New("tx id already claimed")
	ErrNoSuchClaim        = errors.New("no claim for tx id")
	ErrSystemDisabled     = errors.New("system is disabled")
	ErrChainMismatch      = errors.New("destination chain mismatch")
	ErrNotInitialized     = errors.New("gateway not initialized")
	ErrAlreadyInitialized = errors.New("gateway already initialized")
)
