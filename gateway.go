// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gateway implements a cross-chain message gateway: two-phase
// replay protection over per-(source chain, tx id) existence records, and
// three-tier threshold authorization of message signatures.
//
// Phase 1 (Claim) creates the replay record with a lightweight proof that
// some party initiated the transfer. Phase 2 (Consume) runs full
// authorization against the platform, chain, and optional project signer
// registries and atomically destroys the record. Each tx id is therefore
// consumed at most once.
package gateway

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

// Gateway orchestrates the replay-protection state machine and the
// signature authorization engine over a keyed-record store. Every state
// transition is synchronous: it completes or fails within the call.
type Gateway struct {
	store    Store
	verifier SignatureVerifier
	emitter  Emitter
	log      log.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEmitter sets the event emitter.
func WithEmitter(emitter Emitter) Option {
	return func(g *Gateway) { g.emitter = emitter }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(g *Gateway) { g.log = logger }
}

// New creates a Gateway over a store and signature verifier. Events are
// discarded and logs suppressed unless configured otherwise.
func New(store Store, verifier SignatureVerifier, opts ...Option) *Gateway {
	g := &Gateway{
		store:    store,
		verifier: verifier,
		emitter:  NoOpEmitter{},
		log:      log.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Initialize stores the gateway configuration. The gateway starts enabled.
func (g *Gateway) Initialize(authority ids.ID, chainID uint64) error {
	if err := g.store.CreateConfig(Config{
		Authority: authority,
		ChainID:   chainID,
		Enabled:   true,
	}); err != nil {
		return err
	}
	g.log.Info("gateway initialized",
		log.Uint64("chainID", chainID),
		log.Stringer("authority", authority),
	)
	return nil
}

// Config returns the current gateway configuration.
func (g *Gateway) Config() (Config, error) {
	return g.store.GetConfig()
}

// SetEnabled flips the system switch. Only Consume and Send honor the
// switch; Claim does not, so replay records can still be registered during
// maintenance windows.
func (g *Gateway) SetEnabled(authority ids.ID, enabled bool) error {
	err := g.store.UpdateConfig(func(cfg *Config) error {
		if cfg.Authority != authority {
			return ErrUnauthorizedAuthority
		}
		cfg.Enabled = enabled
		return nil
	})
	if err != nil {
		return err
	}
	g.emitter.Emit(SystemStatusChanged{Enabled: enabled})
	g.log.Info("system status changed", log.Bool("enabled", enabled))
	return nil
}

// TransferAuthority hands gateway administration to a new identity.
func (g *Gateway) TransferAuthority(authority, newAuthority ids.ID) error {
	return g.store.UpdateConfig(func(cfg *Config) error {
		if cfg.Authority != authority {
			return ErrUnauthorizedAuthority
		}
		cfg.Authority = newAuthority
		return nil
	})
}

// Claim is phase 1 of message processing: it registers the replay record
// for (source chain, tx id) and advances the source chain's watermark.
//
// The claim phase intentionally requires only one cryptographically valid
// signature over the canonical digest and ignores the enabled switch; full
// three-tier authorization is Consume's job. A second claim for the same
// key fails with ErrAlreadyClaimed no matter who submits it.
func (g *Gateway) Claim(msg *Message, signatures []Signature) error {
	if err := msg.Verify(); err != nil {
		return err
	}
	digest, err := msg.SigningHash()
	if err != nil {
		return err
	}
	if err := AuthorizeClaim(g.verifier, signatures, digest); err != nil {
		return err
	}

	key := RecordKey{SourceChainID: msg.SourceChainID, TxID: *msg.TxID}
	if err := g.store.CreateTxRecord(key, TxRecord{TxID: *msg.TxID}); err != nil {
		return err
	}

	// Watermark update is advisory bookkeeping; a failure here must not
	// undo the claim, so it is logged and swallowed.
	if err := g.store.UpsertCounter(msg.SourceChainID, func(cur Counter, exists bool) (Counter, error) {
		if !exists {
			return Counter{
				SourceChainID:   msg.SourceChainID,
				HighestTxIDSeen: *msg.TxID,
			}, nil
		}
		if msg.TxID.Cmp(&cur.HighestTxIDSeen) > 0 {
			cur.HighestTxIDSeen = *msg.TxID
		}
		return cur, nil
	}); err != nil {
		g.log.Warn("failed to update watermark",
			log.Uint64("sourceChainID", msg.SourceChainID),
			log.Err(err),
		)
	}

	g.emitter.Emit(TxClaimed{
		TxID:          *msg.TxID,
		SourceChainID: msg.SourceChainID,
	})
	g.log.Info("tx id claimed",
		log.Uint64("sourceChainID", msg.SourceChainID),
		log.String("txID", msg.TxID.Dec()),
	)
	return nil
}

// Consume is phase 2: it re-validates the envelope, runs full three-tier
// authorization, and atomically destroys the replay record. Authorization
// success and record destruction are inseparable; if authorization fails
// the record stays claimed so a corrected retry remains possible.
//
// The platform and project registries are keyed by the destination chain,
// the chain-tier registry by the source chain. The project tier is
// enforced only if a project registry exists for the destination chain.
func (g *Gateway) Consume(relayer ids.ID, msg *Message, signatures []Signature) (*ValidationResult, error) {
	cfg, err := g.store.GetConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrSystemDisabled
	}
	if msg.DestChainID != cfg.ChainID {
		return nil, fmt.Errorf("%w: message for chain %d, gateway chain %d",
			ErrChainMismatch, msg.DestChainID, cfg.ChainID)
	}
	if err := msg.Verify(); err != nil {
		return nil, err
	}

	// Fast fail before signature verification. The authoritative
	// existence check is the delete below.
	key := RecordKey{SourceChainID: msg.SourceChainID, TxID: *msg.TxID}
	record, ok, err := g.store.GetTxRecord(key)
	if err != nil {
		return nil, err
	}
	if !ok || record.TxID != *msg.TxID {
		return nil, ErrNoSuchClaim
	}

	digest, err := msg.SigningHash()
	if err != nil {
		return nil, err
	}

	platform, ok, err := g.store.GetRegistry(RegistryKey{Tier: TierPlatform, ChainID: msg.DestChainID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: platform registry for chain %d", ErrRegistryNotFound, msg.DestChainID)
	}
	chain, ok, err := g.store.GetRegistry(RegistryKey{Tier: TierChain, ChainID: msg.SourceChainID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: chain registry for chain %d", ErrRegistryNotFound, msg.SourceChainID)
	}
	project, _, err := g.store.GetRegistry(RegistryKey{Tier: TierProject, ChainID: msg.DestChainID})
	if err != nil {
		return nil, err
	}

	result, err := Authorize(g.verifier, signatures, digest, platform, chain, project)
	if err != nil {
		return nil, err
	}

	// The check-and-delete serializes racing consumes: exactly one wins,
	// the rest observe ErrNoSuchClaim.
	if _, err := g.store.DeleteTxRecord(key, *msg.TxID); err != nil {
		return nil, err
	}

	g.emitter.Emit(MessageProcessed{
		TxID:          *msg.TxID,
		SourceChainID: msg.SourceChainID,
		Relayer:       relayer,
	})
	g.log.Info("message processed",
		log.Uint64("sourceChainID", msg.SourceChainID),
		log.String("txID", msg.TxID.Dec()),
		log.Int("platformSignatures", int(result.PlatformSignatures)),
		log.Int("chainSignatures", int(result.ChainSignatures)),
		log.Int("projectSignatures", int(result.ProjectSignatures)),
		log.Stringer("relayer", relayer),
	)
	return result, nil
}

// Send accepts an outbound message for relay to another chain. It performs
// input validation and emits SendRequested for off-chain pickup; delivery
// is the relay network's job.
func (g *Gateway) Send(
	sender ids.ID,
	txID *uint256.Int,
	destChainID uint64,
	recipient []byte,
	chainData []byte,
	confirmations uint16,
) error {
	cfg, err := g.store.GetConfig()
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return ErrSystemDisabled
	}
	switch {
	case txID == nil:
		return ErrNilTxID
	case txID.BitLen() > TxIDBits:
		return ErrTxIDTooLarge
	case len(recipient) == 0:
		return ErrEmptyRecipient
	case len(chainData) == 0:
		return ErrEmptyChainData
	case len(recipient) > MaxRecipientSize:
		return fmt.Errorf("%w: %d bytes", ErrRecipientTooLong, len(recipient))
	case len(chainData) > MaxOnChainDataSize:
		return fmt.Errorf("%w: %d bytes", ErrOnChainDataTooLarge, len(chainData))
	}

	g.emitter.Emit(SendRequested{
		TxID:          *txID,
		Sender:        sender,
		Recipient:     recipient,
		DestChainID:   destChainID,
		ChainData:     chainData,
		Confirmations: confirmations,
	})
	g.log.Info("send requested",
		log.Uint64("destChainID", destChainID),
		log.String("txID", txID.Dec()),
	)
	return nil
}

// Watermark returns the highest tx id claimed so far for a source chain.
// The boolean reports whether any claim has ever been seen for that chain,
// which is how a stored tx id of zero is told apart from "never seen".
func (g *Gateway) Watermark(sourceChainID uint64) (uint256.Int, bool, error) {
	counter, ok, err := g.store.GetCounter(sourceChainID)
	if err != nil || !ok {
		return uint256.Int{}, false, err
	}
	return counter.HighestTxIDSeen, true, nil
}

// InitializeRegistry creates the signer registry for (tier, chain id).
// Only the gateway authority may create registries; the registry's own
// authority is set to the caller.
func (g *Gateway) InitializeRegistry(
	authority ids.ID,
	tier Tier,
	chainID uint64,
	signers []ids.ID,
	requiredSignatures uint8,
) error {
	cfg, err := g.store.GetConfig()
	if err != nil {
		return err
	}
	if cfg.Authority != authority {
		return ErrUnauthorizedAuthority
	}
	registry, err := NewSignerRegistry(tier, authority, chainID, signers, requiredSignatures)
	if err != nil {
		return err
	}
	if err := g.store.CreateRegistry(RegistryKey{Tier: tier, ChainID: chainID}, registry); err != nil {
		return err
	}
	g.log.Info("signer registry initialized",
		log.Stringer("tier", tier),
		log.Uint64("chainID", chainID),
		log.Int("signers", len(signers)),
		log.Int("requiredSignatures", int(requiredSignatures)),
	)
	return nil
}

// updateRegistry runs an authority-checked mutation against a stored
// registry. The mutation is all-or-nothing: a failed invariant leaves the
// stored registry unchanged.
func (g *Gateway) updateRegistry(
	authority ids.ID,
	tier Tier,
	chainID uint64,
	mutate func(registry *SignerRegistry) error,
) error {
	return g.store.UpdateRegistry(RegistryKey{Tier: tier, ChainID: chainID}, func(registry *SignerRegistry) error {
		if registry.Authority != authority {
			return ErrUnauthorizedAuthority
		}
		return mutate(registry)
	})
}

// ReplaceSigners swaps a registry's whole signer set and threshold.
func (g *Gateway) ReplaceSigners(
	authority ids.ID,
	tier Tier,
	chainID uint64,
	signers []ids.ID,
	requiredSignatures uint8,
) error {
	return g.updateRegistry(authority, tier, chainID, func(registry *SignerRegistry) error {
		return registry.ReplaceSigners(signers, requiredSignatures)
	})
}

// AddSigner adds one signer to a registry.
func (g *Gateway) AddSigner(authority ids.ID, tier Tier, chainID uint64, signer ids.ID) error {
	return g.updateRegistry(authority, tier, chainID, func(registry *SignerRegistry) error {
		return registry.AddSigner(signer)
	})
}

// RemoveSigner removes one signer from a registry.
func (g *Gateway) RemoveSigner(authority ids.ID, tier Tier, chainID uint64, signer ids.ID) error {
	return g.updateRegistry(authority, tier, chainID, func(registry *SignerRegistry) error {
		return registry.RemoveSigner(signer)
	})
}

// SetThreshold updates a registry's required signature count.
func (g *Gateway) SetThreshold(authority ids.ID, tier Tier, chainID uint64, requiredSignatures uint8) error {
	return g.updateRegistry(authority, tier, chainID, func(registry *SignerRegistry) error {
		return registry.SetThreshold(requiredSignatures)
	})
}

// SetRegistryEnabled toggles a registry.
func (g *Gateway) SetRegistryEnabled(authority ids.ID, tier Tier, chainID uint64, enabled bool) error {
	return g.updateRegistry(authority, tier, chainID, func(registry *SignerRegistry) error {
		registry.SetEnabled(enabled)
		return nil
	})
}
