// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/rlp"
)

// Size bounds for envelope fields. Oversized fields are rejected before
// hashing so a relayer cannot grow accounts or grind hash inputs.
const (
	MaxSenderSize       = 64
	MaxRecipientSize    = 64
	MaxOnChainDataSize  = 1024
	MaxOffChainDataSize = 1024

	// TxIDBits is the width of a source-chain transaction identifier.
	TxIDBits = 128
)

// Message is a cross-chain message envelope. It exists only as call input:
// the gateway never persists an envelope, only the replay record derived
// from it.
type Message struct {
	TxID          *uint256.Int
	SourceChainID uint64
	DestChainID   uint64
	Sender        []byte
	Recipient     []byte
	OnChainData   []byte
	OffChainData  []byte
}

// NewMessage creates a message envelope and validates its field bounds.
func NewMessage(
	txID *uint256.Int,
	sourceChainID uint64,
	destChainID uint64,
	sender []byte,
	recipient []byte,
	onChainData []byte,
	offChainData []byte,
) (*Message, error) {
	msg := &Message{
		TxID:          txID,
		SourceChainID: sourceChainID,
		DestChainID:   destChainID,
		Sender:        sender,
		Recipient:     recipient,
		OnChainData:   onChainData,
		OffChainData:  offChainData,
	}
	if err := msg.Verify(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Verify checks the envelope field bounds.
func (m *Message) Verify() error {
	switch {
	case m.TxID == nil:
		return ErrNilTxID
	case m.TxID.BitLen() > TxIDBits:
		return ErrTxIDTooLarge
	case len(m.Sender) > MaxSenderSize:
		return fmt.Errorf("%w: %d bytes", ErrSenderTooLong, len(m.Sender))
	case len(m.Recipient) > MaxRecipientSize:
		return fmt.Errorf("%w: %d bytes", ErrRecipientTooLong, len(m.Recipient))
	case len(m.OnChainData) > MaxOnChainDataSize:
		return fmt.Errorf("%w: %d bytes", ErrOnChainDataTooLarge, len(m.OnChainData))
	case len(m.OffChainData) > MaxOffChainDataSize:
		return fmt.Errorf("%w: %d bytes", ErrOffChainDataTooLarge, len(m.OffChainData))
	}
	return nil
}

// Bytes returns the transport encoding of the envelope. This is the relay
// interchange format, distinct from the canonical signing layout produced
// by SigningBytes.
func (m *Message) Bytes() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

// ParseMessage decodes a transport-encoded envelope and validates its
// field bounds.
func ParseMessage(b []byte) (*Message, error) {
	msg := &Message{}
	if err := rlp.DecodeBytes(b, msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	if err := msg.Verify(); err != nil {
		return nil, err
	}
	return msg, nil
}
