// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

// ValidationResult reports how a signature batch satisfied each tier.
// A single signer may count toward several tiers at once; TotalValid counts
// distinct signers that matched at least one tier.
type ValidationResult struct {
	PlatformSignatures uint8
	ChainSignatures    uint8
	ProjectSignatures  uint8
	TotalValid         uint8
}

func (r *ValidationResult) countSigner(isPlatform, isChain, isProject bool) {
	if isPlatform {
		r.PlatformSignatures++
	}
	if isChain {
		r.ChainSignatures++
	}
	if isProject {
		r.ProjectSignatures++
	}
	if isPlatform || isChain || isProject {
		r.TotalValid++
	}
}

func checkBatchBounds(signatures []Signature) error {
	if len(signatures) < MinSignatures {
		return fmt.Errorf("%w: %d < %d", ErrTooFewSignatures, len(signatures), MinSignatures)
	}
	if len(signatures) > MaxSignatures {
		return fmt.Errorf("%w: %d > %d", ErrTooManySignatures, len(signatures), MaxSignatures)
	}
	return nil
}

// Authorize runs full three-tier authorization of a signature batch over a
// digest. The platform and chain registries are required; project is
// optional and enforced only when supplied.
//
// Every signature must verify cryptographically and belong to at least one
// supplied registry; a single bad or duplicate signature rejects the whole
// batch. After classification, each required tier must reach its own
// threshold of matched signatures.
func Authorize(
	verifier SignatureVerifier,
	signatures []Signature,
	digest common.Hash,
	platform *SignerRegistry,
	chain *SignerRegistry,
	project *SignerRegistry,
) (*ValidationResult, error) {
	if err := checkBatchBounds(signatures); err != nil {
		return nil, err
	}
	if err := ValidateDigest(digest); err != nil {
		return nil, err
	}
	if !platform.Enabled || !chain.Enabled {
		return nil, ErrRegistryDisabled
	}
	if project != nil && !project.Enabled {
		return nil, ErrRegistryDisabled
	}

	result := &ValidationResult{}
	seen := set.NewSet[ids.ID](len(signatures))

	for _, sig := range signatures {
		if seen.Contains(sig.Signer) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSigner, sig.Signer)
		}
		seen.Add(sig.Signer)

		if !verifier.Verify(sig.Signature, sig.Signer, digest) {
			return nil, fmt.Errorf("%w: signer %s", ErrInvalidSignature, sig.Signer)
		}

		// Membership is non-exclusive: one signer may satisfy several
		// tiers with a single signature.
		isPlatform := platform.IsMember(sig.Signer)
		isChain := chain.IsMember(sig.Signer)
		isProject := project != nil && project.IsMember(sig.Signer)

		if !isPlatform && !isChain && !isProject {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorizedSigner, sig.Signer)
		}

		result.countSigner(isPlatform, isChain, isProject)
	}

	if result.PlatformSignatures < platform.RequiredSignatures {
		return nil, fmt.Errorf("%w: %d < %d",
			ErrInsufficientPlatformSignatures, result.PlatformSignatures, platform.RequiredSignatures)
	}
	if result.ChainSignatures < chain.RequiredSignatures {
		return nil, fmt.Errorf("%w: %d < %d",
			ErrInsufficientChainSignatures, result.ChainSignatures, chain.RequiredSignatures)
	}
	if project != nil && result.ProjectSignatures < project.RequiredSignatures {
		return nil, fmt.Errorf("%w: %d < %d",
			ErrInsufficientProjectSignatures, result.ProjectSignatures, project.RequiredSignatures)
	}

	return result, nil
}

// AuthorizeClaim is the lightweight claim-phase check: the batch is
// non-empty and within the maximum, the digest is non-zero, and at least
// one signature verifies. The two-signature minimum applies only to the
// consume phase; a relayer holding a single valid signature can register a
// claim. Registry membership and thresholds are deliberately not checked
// here; the claim phase only proves that some party initiated the
// transfer, and full authorization happens at consume time.
func AuthorizeClaim(verifier SignatureVerifier, signatures []Signature, digest common.Hash) error {
	if len(signatures) == 0 {
		return fmt.Errorf("%w: empty batch", ErrTooFewSignatures)
	}
	if len(signatures) > MaxSignatures {
		return fmt.Errorf("%w: %d > %d", ErrTooManySignatures, len(signatures), MaxSignatures)
	}
	if err := ValidateDigest(digest); err != nil {
		return err
	}
	for _, sig := range signatures {
		if verifier.Verify(sig.Signature, sig.Signer, digest) {
			return nil
		}
	}
	return fmt.Errorf("%w: no valid signature in batch", ErrInvalidSignature)
}
