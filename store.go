// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
)

// RecordKey identifies one replay-protection record. The (source chain,
// tx id) pair exclusively owns the record: no two live records ever share
// a key.
type RecordKey struct {
	SourceChainID uint64
	TxID          uint256.Int
}

// TxRecord is the existence record created at claim time and destroyed at
// consume time. Its mere presence is the state; there is no status field.
type TxRecord struct {
	TxID uint256.Int
}

// Counter tracks the highest tx id seen per source chain. Advisory only:
// it never gates claim or consume, and out-of-order tx ids are expected.
type Counter struct {
	SourceChainID   uint64
	HighestTxIDSeen uint256.Int
}

// RegistryKey identifies one signer registry.
type RegistryKey struct {
	Tier    Tier
	ChainID uint64
}

// Config is the per-installation gateway configuration. It is an explicit
// keyed record, never ambient state.
type Config struct {
	Authority ids.ID
	ChainID   uint64
	Enabled   bool
}

// Store is the keyed-record storage the gateway runs against. Every method
// is a single all-or-nothing operation: concurrent callers observe either
// none or all of its effects.
//
// Implementations must guarantee that CreateTxRecord is an atomic
// create-if-absent (there is no overwrite path) and that DeleteTxRecord is
// an atomic check-and-delete, so that exactly one of any set of racing
// claims or consumes for a key can win.
type Store interface {
	// CreateTxRecord creates the record for key, failing with
	// ErrAlreadyClaimed if one already exists.
	CreateTxRecord(key RecordKey, record TxRecord) error

	// GetTxRecord returns the record for key, if present.
	GetTxRecord(key RecordKey) (TxRecord, bool, error)

	// DeleteTxRecord destroys the record for key after checking that its
	// stored tx id equals txID, failing with ErrNoSuchClaim if the record
	// is absent or does not match.
	DeleteTxRecord(key RecordKey, txID uint256.Int) (TxRecord, error)

	// GetCounter returns the watermark counter for a source chain. The
	// boolean distinguishes "never seen this chain" from a stored zero.
	GetCounter(sourceChainID uint64) (Counter, bool, error)

	// UpsertCounter atomically reads, updates, and writes back the counter
	// for a source chain. update receives the current value and whether a
	// counter exists yet.
	UpsertCounter(sourceChainID uint64, update func(cur Counter, exists bool) (Counter, error)) error

	// CreateRegistry creates a registry, failing with ErrRegistryExists if
	// one is already stored under key.
	CreateRegistry(key RegistryKey, registry *SignerRegistry) error

	// GetRegistry returns a copy of the registry stored under key.
	GetRegistry(key RegistryKey) (*SignerRegistry, bool, error)

	// UpdateRegistry atomically applies update to the registry stored
	// under key, persisting the result only if update returns nil. Fails
	// with ErrRegistryNotFound if no registry exists.
	UpdateRegistry(key RegistryKey, update func(registry *SignerRegistry) error) error

	// CreateConfig stores the gateway configuration, failing with
	// ErrAlreadyInitialized if one exists.
	CreateConfig(cfg Config) error

	// GetConfig returns the gateway configuration, failing with
	// ErrNotInitialized if the gateway was never initialized.
	GetConfig() (Config, error)

	// UpdateConfig atomically applies update to the configuration,
	// persisting the result only if update returns nil.
	UpdateConfig(update func(cfg *Config) error) error
}
