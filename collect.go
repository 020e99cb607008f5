// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/p2p"

	"github.com/luxfi/gateway/utils"
)

// CollectHandlerID is the protocol ID for gateway signature collection.
const CollectHandlerID = 0x67747779

var errNotEnoughSignatures = errors.New("failed to collect enough signatures")

// CollectRequest asks a remote signer to sign the canonical digest of a
// transport-encoded envelope.
type CollectRequest struct {
	Message []byte
}

// CollectResponse carries the signer's signature over the digest.
type CollectResponse struct {
	Signature []byte
}

// MarshalCollectRequest marshals a collect request to bytes.
func MarshalCollectRequest(req *CollectRequest) ([]byte, error) {
	// Format: msgLen(4) + msg
	buf := make([]byte, 4+len(req.Message))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(req.Message)))
	copy(buf[4:], req.Message)
	return buf, nil
}

// UnmarshalCollectRequest unmarshals bytes to a collect request.
func UnmarshalCollectRequest(data []byte) (*CollectRequest, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("data too short: %d", len(data))
	}
	msgLen := binary.BigEndian.Uint32(data[0:4])
	if len(data) < int(4+msgLen) {
		return nil, fmt.Errorf("data too short for message: %d", len(data))
	}
	return &CollectRequest{
		Message: data[4 : 4+msgLen],
	}, nil
}

// MarshalCollectResponse marshals a collect response to bytes.
func MarshalCollectResponse(signature []byte) ([]byte, error) {
	// Format: sigLen(4) + sig
	buf := make([]byte, 4+len(signature))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(signature)))
	copy(buf[4:], signature)
	return buf, nil
}

// UnmarshalCollectResponse unmarshals bytes to a collect response.
func UnmarshalCollectResponse(data []byte) (*CollectResponse, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("data too short: %d", len(data))
	}
	sigLen := binary.BigEndian.Uint32(data[0:4])
	if len(data) < int(4+sigLen) {
		return nil, fmt.Errorf("data too short for signature: %d", len(data))
	}
	return &CollectResponse{
		Signature: data[4 : 4+sigLen],
	}, nil
}

// RemoteSigner pairs a signer identity with the network node operating it.
type RemoteSigner struct {
	NodeID ids.NodeID
	Signer ids.ID
}

type collectorResult struct {
	NodeID    ids.NodeID
	Signer    ids.ID
	Signature Signature
	Err       error
}

// SignatureCollector gathers per-signer signatures over a message digest
// from remote signers, for a relayer assembling a claim or consume batch.
type SignatureCollector struct {
	log      log.Logger
	client   *p2p.Client
	verifier SignatureVerifier
}

// NewSignatureCollector returns an instance of SignatureCollector.
func NewSignatureCollector(log log.Logger, client *p2p.Client, verifier SignatureVerifier) *SignatureCollector {
	return &SignatureCollector{
		log:      log,
		client:   client,
		verifier: verifier,
	}
}

// CollectSignatures blocks until target signatures over the message's
// canonical digest have been gathered from the given signers, every signer
// has answered, or the context is canceled. Responses that fail
// verification or duplicate an already-collected signer are dropped, not
// fatal. Returns whatever was collected together with
// errNotEnoughSignatures if the target was not reached.
func (c *SignatureCollector) CollectSignatures(
	ctx context.Context,
	msg *Message,
	signers []RemoteSigner,
	target int,
) ([]Signature, error) {
	digest, err := msg.SigningHash()
	if err != nil {
		return nil, err
	}
	msgBytes, err := msg.Bytes()
	if err != nil {
		return nil, err
	}
	requestBytes, err := MarshalCollectRequest(&CollectRequest{Message: msgBytes})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collect request: %w", err)
	}

	nodeIDsToSigner := make(map[ids.NodeID]ids.ID, len(signers))
	nodeIDs := make([]ids.NodeID, 0, len(signers))
	for _, signer := range signers {
		nodeIDsToSigner[signer.NodeID] = signer.Signer
		nodeIDs = append(nodeIDs, signer.NodeID)
	}

	results := make(chan collectorResult)
	handler := collectResponseHandler{
		digest:          digest,
		verifier:        c.verifier,
		nodeIDsToSigner: nodeIDsToSigner,
		results:         results,
	}

	if err := c.client.Request(ctx, set.Of(nodeIDs...), requestBytes, handler.HandleResponse); err != nil {
		return nil, fmt.Errorf("failed to send collect request: %w", err)
	}

	collected := make([]Signature, 0, target)
	seen := set.NewSet[ids.ID](len(signers))

	for i := 0; i < len(signers); i++ {
		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		case result := <-results:
			if result.Err != nil {
				c.log.Debug(
					"dropping response",
					log.Stringer("nodeID", result.NodeID),
					log.Err(result.Err),
				)
				continue
			}

			// Signers may operate several nodes, so drop duplicates.
			if seen.Contains(result.Signer) {
				c.log.Debug(
					"dropping duplicate signature",
					log.Stringer("nodeID", result.NodeID),
					log.Stringer("signer", result.Signer),
				)
				continue
			}
			seen.Add(result.Signer)
			collected = append(collected, result.Signature)

			if len(collected) >= target {
				return collected, nil
			}
		}
	}

	return collected, fmt.Errorf("%w: %d of %d", errNotEnoughSignatures, len(collected), target)
}

// CollectSignaturesWithRetry retries CollectSignatures under exponential
// backoff until the target is reached or the timeout elapses. Signatures
// already collected in a failed attempt are discarded; each attempt
// re-requests from the full signer set.
func (c *SignatureCollector) CollectSignaturesWithRetry(
	ctx context.Context,
	msg *Message,
	signers []RemoteSigner,
	target int,
	timeout time.Duration,
) ([]Signature, error) {
	var collected []Signature
	err := utils.WithRetriesTimeout(c.log, func() error {
		sigs, err := c.CollectSignatures(ctx, msg, signers, target)
		if err != nil {
			return err
		}
		collected = sigs
		return nil
	}, timeout)
	if err != nil {
		return nil, err
	}
	return collected, nil
}

type collectResponseHandler struct {
	digest          common.Hash
	verifier        SignatureVerifier
	nodeIDsToSigner map[ids.NodeID]ids.ID
	results         chan collectorResult
}

func (r *collectResponseHandler) HandleResponse(
	_ context.Context,
	nodeID ids.NodeID,
	responseBytes []byte,
	err error,
) {
	signer := r.nodeIDsToSigner[nodeID]
	if err != nil {
		r.results <- collectorResult{NodeID: nodeID, Signer: signer, Err: err}
		return
	}

	response, err := UnmarshalCollectResponse(responseBytes)
	if err != nil {
		r.results <- collectorResult{NodeID: nodeID, Signer: signer, Err: err}
		return
	}
	if len(response.Signature) != SignatureLen {
		r.results <- collectorResult{
			NodeID: nodeID,
			Signer: signer,
			Err:    fmt.Errorf("%w: %d bytes", ErrInvalidSignature, len(response.Signature)),
		}
		return
	}

	sig := Signature{Signer: signer}
	copy(sig.Signature[:], response.Signature)

	if !r.verifier.Verify(sig.Signature, signer, r.digest) {
		r.results <- collectorResult{NodeID: nodeID, Signer: signer, Err: ErrInvalidSignature}
		return
	}

	r.results <- collectorResult{NodeID: nodeID, Signer: signer, Signature: sig}
}

// CollectHandler handles incoming collect requests on the signer side.
type CollectHandler interface {
	// Request handles an incoming collect request.
	Request(ctx context.Context, nodeID ids.NodeID, deadline time.Time, request []byte) ([]byte, error)
}

// NoOpCollectHandler is a no-op implementation of CollectHandler.
type NoOpCollectHandler struct{}

// Request returns an empty response.
func (NoOpCollectHandler) Request(context.Context, ids.NodeID, time.Time, []byte) ([]byte, error) {
	return nil, nil
}

// SignerService answers collect requests by signing the canonical digest
// of the requested envelope with a local ed25519 key.
type SignerService struct {
	key    ed25519.PrivateKey
	signer ids.ID
}

// NewSignerService creates a signer service around a private key.
func NewSignerService(key ed25519.PrivateKey) *SignerService {
	var signer ids.ID
	copy(signer[:], key.Public().(ed25519.PublicKey))
	return &SignerService{
		key:    key,
		signer: signer,
	}
}

// Signer returns the service's signer identity.
func (s *SignerService) Signer() ids.ID {
	return s.signer
}

// Request parses the envelope, recomputes its canonical digest, and signs
// it. The envelope is re-validated locally; a signer never signs a digest
// it did not derive itself.
func (s *SignerService) Request(_ context.Context, _ ids.NodeID, _ time.Time, request []byte) ([]byte, error) {
	req, err := UnmarshalCollectRequest(request)
	if err != nil {
		return nil, err
	}
	msg, err := ParseMessage(req.Message)
	if err != nil {
		return nil, err
	}
	digest, err := msg.SigningHash()
	if err != nil {
		return nil, err
	}
	sig := SignDigest(s.key, digest)
	return MarshalCollectResponse(sig.Signature[:])
}
