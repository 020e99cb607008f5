// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func testSignerIDs(n int) []ids.ID {
	signers := make([]ids.ID, n)
	for i := range signers {
		signers[i] = ids.ID{0: byte(i + 1)}
	}
	return signers
}

func TestNewSignerRegistry(t *testing.T) {
	authority := ids.ID{0xAA}

	tests := []struct {
		name      string
		signers   []ids.ID
		threshold uint8
		wantErr   error
	}{
		{"single signer", testSignerIDs(1), 1, nil},
		{"full set", testSignerIDs(MaxSignersPerRegistry), MaxSignersPerRegistry, nil},
		{"empty signer set", nil, 1, ErrEmptySignerSet},
		{"too many signers", testSignerIDs(MaxSignersPerRegistry + 1), 1, ErrTooManySigners},
		{"zero threshold", testSignerIDs(3), 0, ErrInvalidThreshold},
		{"threshold above set size", testSignerIDs(3), 4, ErrInvalidThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewSignerRegistry(TierChain, authority, 7, tt.signers, tt.threshold)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, TierChain, registry.Tier)
			require.Equal(t, authority, registry.Authority)
			require.Equal(t, uint64(7), registry.ChainID)
			require.Equal(t, tt.signers, registry.Signers)
			require.Equal(t, tt.threshold, registry.RequiredSignatures)
			require.True(t, registry.Enabled)
		})
	}
}

func TestRegistryReplaceSigners(t *testing.T) {
	registry, err := NewSignerRegistry(TierPlatform, ids.ID{0xAA}, 0, testSignerIDs(3), 2)
	require.NoError(t, err)

	replacement := []ids.ID{{0x10}, {0x11}}
	require.NoError(t, registry.ReplaceSigners(replacement, 2))
	require.Equal(t, replacement, registry.Signers)
	require.Equal(t, uint8(2), registry.RequiredSignatures)

	// Invalid replacements leave the registry untouched.
	require.ErrorIs(t, registry.ReplaceSigners(nil, 1), ErrEmptySignerSet)
	require.ErrorIs(t, registry.ReplaceSigners(testSignerIDs(11), 1), ErrTooManySigners)
	require.ErrorIs(t, registry.ReplaceSigners(testSignerIDs(2), 3), ErrInvalidThreshold)
	require.Equal(t, replacement, registry.Signers)
	require.Equal(t, uint8(2), registry.RequiredSignatures)
}

func TestRegistryAddSigner(t *testing.T) {
	registry, err := NewSignerRegistry(TierChain, ids.ID{0xAA}, 7, testSignerIDs(2), 1)
	require.NoError(t, err)

	newSigner := ids.ID{0x42}
	require.NoError(t, registry.AddSigner(newSigner))
	require.Len(t, registry.Signers, 3)
	require.ErrorIs(t, registry.AddSigner(newSigner), ErrDuplicateSigner)
	require.Len(t, registry.Signers, 3)

	full, err := NewSignerRegistry(TierChain, ids.ID{0xAA}, 7, testSignerIDs(MaxSignersPerRegistry), 1)
	require.NoError(t, err)
	require.ErrorIs(t, full.AddSigner(ids.ID{0x42, 0x42}), ErrTooManySigners)
}

func TestRegistryRemoveSigner(t *testing.T) {
	signers := testSignerIDs(3)
	registry, err := NewSignerRegistry(TierChain, ids.ID{0xAA}, 7, signers, 2)
	require.NoError(t, err)

	require.ErrorIs(t, registry.RemoveSigner(ids.ID{0x99}), ErrSignerNotFound)

	require.NoError(t, registry.RemoveSigner(signers[1]))
	require.Equal(t, []ids.ID{signers[0], signers[2]}, registry.Signers)

	// Removing another signer would leave the threshold unsatisfiable, so
	// the set must stay unchanged.
	require.ErrorIs(t, registry.RemoveSigner(signers[0]), ErrThresholdUnsatisfiable)
	require.Equal(t, []ids.ID{signers[0], signers[2]}, registry.Signers)
	require.Equal(t, uint8(2), registry.RequiredSignatures)
}

func TestRegistrySetThreshold(t *testing.T) {
	registry, err := NewSignerRegistry(TierProject, ids.ID{0xAA}, 7, testSignerIDs(3), 2)
	require.NoError(t, err)

	require.ErrorIs(t, registry.SetThreshold(0), ErrInvalidThreshold)
	require.ErrorIs(t, registry.SetThreshold(4), ErrThresholdTooHigh)
	require.Equal(t, uint8(2), registry.RequiredSignatures)

	require.NoError(t, registry.SetThreshold(3))
	require.Equal(t, uint8(3), registry.RequiredSignatures)
}

func TestRegistryMembership(t *testing.T) {
	signers := testSignerIDs(2)
	registry, err := NewSignerRegistry(TierChain, ids.ID{0xAA}, 7, signers, 1)
	require.NoError(t, err)

	require.True(t, registry.IsMember(signers[0]))
	require.False(t, registry.IsMember(ids.ID{0x99}))

	// A disabled registry confers no membership.
	registry.SetEnabled(false)
	require.False(t, registry.IsMember(signers[0]))
	registry.SetEnabled(true)
	require.True(t, registry.IsMember(signers[0]))
}

func TestRegistryClone(t *testing.T) {
	registry, err := NewSignerRegistry(TierChain, ids.ID{0xAA}, 7, testSignerIDs(2), 1)
	require.NoError(t, err)

	clone := registry.Clone()
	require.Equal(t, registry, clone)

	clone.Signers[0] = ids.ID{0xFF}
	clone.RequiredSignatures = 2
	require.Equal(t, ids.ID{0x01}, registry.Signers[0])
	require.Equal(t, uint8(1), registry.RequiredSignatures)
}

func TestTierString(t *testing.T) {
	require.Equal(t, "platform", TierPlatform.String())
	require.Equal(t, "chain", TierChain.String())
	require.Equal(t, "project", TierProject.String())
}
