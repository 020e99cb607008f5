// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func testMessage() *Message {
	return &Message{
		TxID:          uint256.NewInt(0xAABBCCDD),
		SourceChainID: 1,
		DestChainID:   2,
		Sender:        []byte{0x01, 0x02},
		Recipient:     []byte{0x03},
		OnChainData:   []byte("on-chain"),
		OffChainData:  []byte("off-chain"),
	}
}

func TestSigningBytesLayout(t *testing.T) {
	msg := testMessage()

	var expected []byte
	txID := make([]byte, 16)
	binary.LittleEndian.PutUint64(txID, 0xAABBCCDD)
	expected = append(expected, txID...)
	expected = binary.LittleEndian.AppendUint64(expected, 1)
	expected = binary.LittleEndian.AppendUint64(expected, 2)
	for _, field := range [][]byte{msg.Sender, msg.Recipient, msg.OnChainData, msg.OffChainData} {
		expected = binary.LittleEndian.AppendUint32(expected, uint32(len(field)))
		expected = append(expected, field...)
	}

	got, err := msg.SigningBytes()
	require.NoError(t, err)
	require.Equal(t, expected, got)

	digest, err := msg.SigningHash()
	require.NoError(t, err)
	require.Equal(t, common.BytesToHash(crypto.Keccak256(expected)), digest)
}

func TestSigningHashDeterministic(t *testing.T) {
	first, err := testMessage().SigningHash()
	require.NoError(t, err)
	second, err := testMessage().SigningHash()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSigningHashFieldSensitivity(t *testing.T) {
	base, err := testMessage().SigningHash()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Message)
	}{
		{"tx id", func(m *Message) { m.TxID = uint256.NewInt(0xAABBCCDE) }},
		{"source chain", func(m *Message) { m.SourceChainID = 9 }},
		{"dest chain", func(m *Message) { m.DestChainID = 9 }},
		{"sender", func(m *Message) { m.Sender = []byte{0x01, 0x03} }},
		{"recipient", func(m *Message) { m.Recipient = []byte{0x04} }},
		{"on-chain data", func(m *Message) { m.OnChainData = []byte("On-chain") }},
		{"off-chain data", func(m *Message) { m.OffChainData = []byte("off-chain!") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			tt.mutate(msg)
			digest, err := msg.SigningHash()
			require.NoError(t, err)
			require.NotEqual(t, base, digest)
		})
	}
}

// Shifting bytes between adjacent variable-length fields must change the
// digest: the length prefixes keep field boundaries in the hash input.
func TestSigningHashAdjacentFieldBoundary(t *testing.T) {
	a := testMessage()
	a.Sender = []byte("ab")
	a.Recipient = []byte("c")

	b := testMessage()
	b.Sender = []byte("a")
	b.Recipient = []byte("bc")

	digestA, err := a.SigningHash()
	require.NoError(t, err)
	digestB, err := b.SigningHash()
	require.NoError(t, err)
	require.NotEqual(t, digestA, digestB)
}

func TestMessageVerifyBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{"nil tx id", func(m *Message) { m.TxID = nil }, ErrNilTxID},
		{
			"tx id over 128 bits",
			func(m *Message) { m.TxID = new(uint256.Int).Lsh(uint256.NewInt(1), 128) },
			ErrTxIDTooLarge,
		},
		{"sender too long", func(m *Message) { m.Sender = bytes.Repeat([]byte{1}, 65) }, ErrSenderTooLong},
		{"recipient too long", func(m *Message) { m.Recipient = bytes.Repeat([]byte{1}, 65) }, ErrRecipientTooLong},
		{"on-chain too large", func(m *Message) { m.OnChainData = bytes.Repeat([]byte{1}, 1025) }, ErrOnChainDataTooLarge},
		{"off-chain too large", func(m *Message) { m.OffChainData = bytes.Repeat([]byte{1}, 1025) }, ErrOffChainDataTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			tt.mutate(msg)
			require.ErrorIs(t, msg.Verify(), tt.wantErr)
			_, err := msg.SigningHash()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("max sizes are valid", func(t *testing.T) {
		msg := testMessage()
		msg.Sender = bytes.Repeat([]byte{1}, MaxSenderSize)
		msg.Recipient = bytes.Repeat([]byte{1}, MaxRecipientSize)
		msg.OnChainData = bytes.Repeat([]byte{1}, MaxOnChainDataSize)
		msg.OffChainData = bytes.Repeat([]byte{1}, MaxOffChainDataSize)
		require.NoError(t, msg.Verify())
	})
}

func TestValidateDigest(t *testing.T) {
	require.ErrorIs(t, ValidateDigest(common.Hash{}), ErrInvalidDigest)
	require.NoError(t, ValidateDigest(common.Hash{31: 1}))
}

func TestMessageTransportRoundTrip(t *testing.T) {
	msg := testMessage()
	b, err := msg.Bytes()
	require.NoError(t, err)

	parsed, err := ParseMessage(b)
	require.NoError(t, err)
	require.Equal(t, msg.TxID, parsed.TxID)
	require.Equal(t, msg.SourceChainID, parsed.SourceChainID)
	require.Equal(t, msg.DestChainID, parsed.DestChainID)
	require.Equal(t, msg.Sender, parsed.Sender)
	require.Equal(t, msg.Recipient, parsed.Recipient)
	require.Equal(t, msg.OnChainData, parsed.OnChainData)
	require.Equal(t, msg.OffChainData, parsed.OffChainData)

	digest, err := msg.SigningHash()
	require.NoError(t, err)
	parsedDigest, err := parsed.SigningHash()
	require.NoError(t, err)
	require.Equal(t, digest, parsedDigest)
}
