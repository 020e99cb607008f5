// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"fmt"

	"github.com/luxfi/ids"
)

// Tier identifies one of the three independent trust layers. A message is
// authorized only when every required tier meets its own signature
// threshold.
type Tier uint8

const (
	// TierPlatform is the platform-operator signer set.
	TierPlatform Tier = iota
	// TierChain is the per-source-chain validator set.
	TierChain
	// TierProject is the optional application-specific signer set.
	TierProject
)

func (t Tier) String() string {
	switch t {
	case TierPlatform:
		return "platform"
	case TierChain:
		return "chain"
	case TierProject:
		return "project"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// MaxSignersPerRegistry caps the signer set of a single registry.
const MaxSignersPerRegistry = 10

// SignerRegistry is the signer set and threshold for one (tier, chain)
// pair. Invariant: 1 <= RequiredSignatures <= len(Signers); every mutation
// re-validates it before returning.
type SignerRegistry struct {
	Tier               Tier
	Authority          ids.ID
	ChainID            uint64
	Signers            []ids.ID
	RequiredSignatures uint8
	Enabled            bool
}

// NewSignerRegistry creates a registry, validating the signer set and
// threshold. New registries start enabled.
func NewSignerRegistry(
	tier Tier,
	authority ids.ID,
	chainID uint64,
	signers []ids.ID,
	requiredSignatures uint8,
) (*SignerRegistry, error) {
	reg := &SignerRegistry{
		Tier:               tier,
		Authority:          authority,
		ChainID:            chainID,
		Signers:            append([]ids.ID(nil), signers...),
		RequiredSignatures: requiredSignatures,
		Enabled:            true,
	}
	if err := reg.validateSigners(reg.Signers, requiredSignatures); err != nil {
		return nil, err
	}
	return reg, nil
}

func (*SignerRegistry) validateSigners(signers []ids.ID, threshold uint8) error {
	switch {
	case len(signers) == 0:
		return ErrEmptySignerSet
	case len(signers) > MaxSignersPerRegistry:
		return fmt.Errorf("%w: %d > %d", ErrTooManySigners, len(signers), MaxSignersPerRegistry)
	case threshold == 0 || int(threshold) > len(signers):
		return fmt.Errorf("%w: %d of %d signers", ErrInvalidThreshold, threshold, len(signers))
	}
	return nil
}

// ReplaceSigners swaps the whole signer set and threshold at once, applying
// the same validation as initialization.
func (r *SignerRegistry) ReplaceSigners(signers []ids.ID, requiredSignatures uint8) error {
	if err := r.validateSigners(signers, requiredSignatures); err != nil {
		return err
	}
	r.Signers = append([]ids.ID(nil), signers...)
	r.RequiredSignatures = requiredSignatures
	return nil
}

// AddSigner appends a signer identity.
func (r *SignerRegistry) AddSigner(signer ids.ID) error {
	if r.contains(signer) {
		return fmt.Errorf("%w: %s", ErrDuplicateSigner, signer)
	}
	if len(r.Signers) >= MaxSignersPerRegistry {
		return fmt.Errorf("%w: registry at capacity %d", ErrTooManySigners, MaxSignersPerRegistry)
	}
	r.Signers = append(r.Signers, signer)
	return nil
}

// RemoveSigner removes a signer identity. Removal is rejected, leaving the
// set unchanged, if it would push the signer count below the current
// threshold.
func (r *SignerRegistry) RemoveSigner(signer ids.ID) error {
	idx := -1
	for i, s := range r.Signers {
		if s == signer {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrSignerNotFound, signer)
	}
	if int(r.RequiredSignatures) > len(r.Signers)-1 {
		return fmt.Errorf("%w: threshold %d, %d signers after removal",
			ErrThresholdUnsatisfiable, r.RequiredSignatures, len(r.Signers)-1)
	}
	r.Signers = append(r.Signers[:idx], r.Signers[idx+1:]...)
	return nil
}

// SetThreshold updates the required signature count.
func (r *SignerRegistry) SetThreshold(requiredSignatures uint8) error {
	if requiredSignatures == 0 {
		return ErrInvalidThreshold
	}
	if int(requiredSignatures) > len(r.Signers) {
		return fmt.Errorf("%w: %d of %d signers",
			ErrThresholdTooHigh, requiredSignatures, len(r.Signers))
	}
	r.RequiredSignatures = requiredSignatures
	return nil
}

// SetEnabled toggles the registry. A disabled registry fails every
// membership check, which in turn fails any authorization that requires
// this tier.
func (r *SignerRegistry) SetEnabled(enabled bool) {
	r.Enabled = enabled
}

// IsMember reports whether signer is an authorized member. Always false
// while the registry is disabled.
func (r *SignerRegistry) IsMember(signer ids.ID) bool {
	return r.Enabled && r.contains(signer)
}

func (r *SignerRegistry) contains(signer ids.ID) bool {
	for _, s := range r.Signers {
		if s == signer {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared registry state outside an atomic update.
func (r *SignerRegistry) Clone() *SignerRegistry {
	cp := *r
	cp.Signers = append([]ids.ID(nil), r.Signers...)
	return &cp
}
