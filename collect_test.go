// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestCollectRequestRoundTrip(t *testing.T) {
	msg := testMessage()
	msgBytes, err := msg.Bytes()
	require.NoError(t, err)

	requestBytes, err := MarshalCollectRequest(&CollectRequest{Message: msgBytes})
	require.NoError(t, err)

	parsed, err := UnmarshalCollectRequest(requestBytes)
	require.NoError(t, err)
	require.Equal(t, msgBytes, parsed.Message)

	_, err = UnmarshalCollectRequest([]byte{0x01})
	require.Error(t, err)
	_, err = UnmarshalCollectRequest(requestBytes[:len(requestBytes)-1])
	require.Error(t, err)
}

func TestCollectResponseRoundTrip(t *testing.T) {
	sig := make([]byte, SignatureLen)
	sig[0] = 0x42

	responseBytes, err := MarshalCollectResponse(sig)
	require.NoError(t, err)

	parsed, err := UnmarshalCollectResponse(responseBytes)
	require.NoError(t, err)
	require.Equal(t, sig, parsed.Signature)

	_, err = UnmarshalCollectResponse([]byte{0x01})
	require.Error(t, err)
	_, err = UnmarshalCollectResponse(responseBytes[:len(responseBytes)-1])
	require.Error(t, err)
}

func TestCollectResponseHandler(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	msg := testMessage()
	digest, err := msg.SigningHash()
	require.NoError(t, err)
	sig := SignDigest(key, digest)

	nodeID := ids.NodeID{0x01}
	results := make(chan collectorResult, 1)
	handler := collectResponseHandler{
		digest:          digest,
		verifier:        Ed25519Verifier{},
		nodeIDsToSigner: map[ids.NodeID]ids.ID{nodeID: sig.Signer},
		results:         results,
	}

	t.Run("valid response", func(t *testing.T) {
		responseBytes, err := MarshalCollectResponse(sig.Signature[:])
		require.NoError(t, err)
		handler.HandleResponse(context.Background(), nodeID, responseBytes, nil)
		result := <-results
		require.NoError(t, result.Err)
		require.Equal(t, sig, result.Signature)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("boom")
		handler.HandleResponse(context.Background(), nodeID, nil, boom)
		result := <-results
		require.ErrorIs(t, result.Err, boom)
	})

	t.Run("malformed response", func(t *testing.T) {
		handler.HandleResponse(context.Background(), nodeID, []byte{0x01}, nil)
		result := <-results
		require.Error(t, result.Err)
	})

	t.Run("wrong signature length", func(t *testing.T) {
		responseBytes, err := MarshalCollectResponse(make([]byte, SignatureLen-1))
		require.NoError(t, err)
		handler.HandleResponse(context.Background(), nodeID, responseBytes, nil)
		result := <-results
		require.ErrorIs(t, result.Err, ErrInvalidSignature)
	})

	t.Run("signature does not verify", func(t *testing.T) {
		corrupted := sig.Signature
		corrupted[0] ^= 0xFF
		responseBytes, err := MarshalCollectResponse(corrupted[:])
		require.NoError(t, err)
		handler.HandleResponse(context.Background(), nodeID, responseBytes, nil)
		result := <-results
		require.ErrorIs(t, result.Err, ErrInvalidSignature)
	})
}

func TestSignerService(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	service := NewSignerService(key)

	msg := testMessage()
	msgBytes, err := msg.Bytes()
	require.NoError(t, err)
	requestBytes, err := MarshalCollectRequest(&CollectRequest{Message: msgBytes})
	require.NoError(t, err)

	responseBytes, err := service.Request(context.Background(), ids.NodeID{}, time.Time{}, requestBytes)
	require.NoError(t, err)

	response, err := UnmarshalCollectResponse(responseBytes)
	require.NoError(t, err)
	require.Len(t, response.Signature, SignatureLen)

	digest, err := msg.SigningHash()
	require.NoError(t, err)
	var sig [SignatureLen]byte
	copy(sig[:], response.Signature)
	require.True(t, (Ed25519Verifier{}).Verify(sig, service.Signer(), digest))

	// Garbage requests and envelopes a signer cannot re-derive are refused.
	_, err = service.Request(context.Background(), ids.NodeID{}, time.Time{}, []byte{0x01})
	require.Error(t, err)
	badEnvelope, err := MarshalCollectRequest(&CollectRequest{Message: []byte{0xFF, 0xFF}})
	require.NoError(t, err)
	_, err = service.Request(context.Background(), ids.NodeID{}, time.Time{}, badEnvelope)
	require.Error(t, err)
}
