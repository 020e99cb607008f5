// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"crypto/ed25519"

	"github.com/luxfi/gateway/cache"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

const (
	// SignatureLen is the length of an ed25519 signature.
	SignatureLen = ed25519.SignatureSize

	// MinSignatures and MaxSignatures bound a consume-phase signature
	// batch. Claims are bounded by MaxSignatures only: one valid
	// signature is enough to register a claim.
	MinSignatures = 2
	MaxSignatures = 8
)

// Signature pairs a raw signature value with the identity that claims to
// have produced it. Which trust tier the signer counts toward is not part
// of the signature; it is derived from registry membership at
// authorization time.
type Signature struct {
	Signature [SignatureLen]byte
	Signer    ids.ID
}

// SignatureVerifier checks that a signature was produced by a signer over
// exactly the given digest. The curve primitive is deliberately behind this
// interface: the gateway trusts it, it does not reimplement it.
type SignatureVerifier interface {
	Verify(signature [SignatureLen]byte, signer ids.ID, digest common.Hash) bool
}

// Ed25519Verifier verifies signatures with the standard ed25519 primitive.
// A signer identity is the 32-byte ed25519 public key.
type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(signature [SignatureLen]byte, signer ids.ID, digest common.Hash) bool {
	return ed25519.Verify(ed25519.PublicKey(signer[:]), digest[:], signature[:])
}

// verificationKey identifies one (signer, digest, signature) verification.
type verificationKey struct {
	Signer    ids.ID
	Digest    common.Hash
	Signature [SignatureLen]byte
}

// CachingVerifier memoizes successful verifications. Only positive results
// are cached: a failed verification is cheap to repeat and must never be
// pinned across registry or input changes.
type CachingVerifier struct {
	inner SignatureVerifier
	cache *cache.FIFOCache[verificationKey, struct{}]
}

// NewCachingVerifier wraps a verifier with a FIFO cache of the given
// capacity.
func NewCachingVerifier(inner SignatureVerifier, capacity int) *CachingVerifier {
	return &CachingVerifier{
		inner: inner,
		cache: cache.NewFIFOCache[verificationKey, struct{}](capacity),
	}
}

func (v *CachingVerifier) Verify(signature [SignatureLen]byte, signer ids.ID, digest common.Hash) bool {
	key := verificationKey{
		Signer:    signer,
		Digest:    digest,
		Signature: signature,
	}
	if _, ok := v.cache.Peek(key); ok {
		return true
	}
	if !v.inner.Verify(signature, signer, digest) {
		return false
	}
	v.cache.Put(key, struct{}{})
	return true
}

// SignDigest produces a Signature over a digest with an ed25519 private
// key. Intended for signer tooling and tests; the gateway itself only
// verifies.
func SignDigest(key ed25519.PrivateKey, digest common.Hash) Signature {
	var sig Signature
	copy(sig.Signature[:], ed25519.Sign(key, digest[:]))
	copy(sig.Signer[:], key.Public().(ed25519.PublicKey))
	return sig
}
