// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store provides the in-memory keyed-record store backing the
// gateway. Every operation holds the store lock for its full duration, so
// each call is a single all-or-nothing unit.
package store

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/gateway"
)

var _ gateway.Store = (*MemStore)(nil)

// MemStore is a mutex-guarded in-memory implementation of gateway.Store.
type MemStore struct {
	mu         sync.RWMutex
	records    map[gateway.RecordKey]gateway.TxRecord
	counters   map[uint64]gateway.Counter
	registries map[gateway.RegistryKey]*gateway.SignerRegistry
	config     *gateway.Config
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		records:    make(map[gateway.RecordKey]gateway.TxRecord),
		counters:   make(map[uint64]gateway.Counter),
		registries: make(map[gateway.RegistryKey]*gateway.SignerRegistry),
	}
}

// CreateTxRecord is an atomic create-if-absent: of any number of racing
// claims for one key, exactly one wins.
func (s *MemStore) CreateTxRecord(key gateway.RecordKey, record gateway.TxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists {
		return gateway.ErrAlreadyClaimed
	}
	s.records[key] = record
	return nil
}

func (s *MemStore) GetTxRecord(key gateway.RecordKey) (gateway.TxRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	return record, ok, nil
}

// DeleteTxRecord is an atomic check-and-delete: of any number of racing
// consumes for one claimed key, exactly one destroys the record.
func (s *MemStore) DeleteTxRecord(key gateway.RecordKey, txID uint256.Int) (gateway.TxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok || record.TxID != txID {
		return gateway.TxRecord{}, gateway.ErrNoSuchClaim
	}
	delete(s.records, key)
	return record, nil
}

func (s *MemStore) GetCounter(sourceChainID uint64) (gateway.Counter, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counter, ok := s.counters[sourceChainID]
	return counter, ok, nil
}

func (s *MemStore) UpsertCounter(
	sourceChainID uint64,
	update func(cur gateway.Counter, exists bool) (gateway.Counter, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.counters[sourceChainID]
	next, err := update(cur, exists)
	if err != nil {
		return err
	}
	s.counters[sourceChainID] = next
	return nil
}

func (s *MemStore) CreateRegistry(key gateway.RegistryKey, registry *gateway.SignerRegistry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registries[key]; exists {
		return gateway.ErrRegistryExists
	}
	s.registries[key] = registry.Clone()
	return nil
}

func (s *MemStore) GetRegistry(key gateway.RegistryKey) (*gateway.SignerRegistry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registry, ok := s.registries[key]
	if !ok {
		return nil, false, nil
	}
	return registry.Clone(), true, nil
}

// UpdateRegistry applies update to a private clone and swaps it in only on
// success, so a failed mutation leaves the stored registry untouched.
func (s *MemStore) UpdateRegistry(
	key gateway.RegistryKey,
	update func(registry *gateway.SignerRegistry) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, ok := s.registries[key]
	if !ok {
		return gateway.ErrRegistryNotFound
	}
	next := registry.Clone()
	if err := update(next); err != nil {
		return err
	}
	s.registries[key] = next
	return nil
}

func (s *MemStore) CreateConfig(cfg gateway.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config != nil {
		return gateway.ErrAlreadyInitialized
	}
	s.config = &cfg
	return nil
}

func (s *MemStore) GetConfig() (gateway.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return gateway.Config{}, gateway.ErrNotInitialized
	}
	return *s.config, nil
}

func (s *MemStore) UpdateConfig(update func(cfg *gateway.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return gateway.ErrNotInitialized
	}
	next := *s.config
	if err := update(&next); err != nil {
		return err
	}
	s.config = &next
	return nil
}
