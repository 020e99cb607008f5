// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"encoding/binary"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// DigestLen is the length of a canonical message digest.
const DigestLen = common.HashLength

// SigningBytes returns the canonical byte encoding of the envelope: the
// exact bytes hashed to produce the digest that off-chain signers sign.
//
// Layout (all integers little-endian):
//
//	tx_id            16 bytes
//	source_chain_id   8 bytes
//	dest_chain_id     8 bytes
//	sender            4-byte length + bytes
//	recipient         4-byte length + bytes
//	on_chain_data     4-byte length + bytes
//	off_chain_data    4-byte length + bytes
//
// This is a wire format shared with every other gateway deployment and
// every off-chain signer. Field order and widths must never change.
func (m *Message) SigningBytes() ([]byte, error) {
	if err := m.Verify(); err != nil {
		return nil, err
	}

	size := 16 + 8 + 8 +
		4 + len(m.Sender) +
		4 + len(m.Recipient) +
		4 + len(m.OnChainData) +
		4 + len(m.OffChainData)
	buf := make([]byte, 0, size)

	var txID [16]byte
	binary.LittleEndian.PutUint64(txID[0:8], m.TxID[0])
	binary.LittleEndian.PutUint64(txID[8:16], m.TxID[1])
	buf = append(buf, txID[:]...)

	buf = binary.LittleEndian.AppendUint64(buf, m.SourceChainID)
	buf = binary.LittleEndian.AppendUint64(buf, m.DestChainID)

	buf = appendLengthPrefixed(buf, m.Sender)
	buf = appendLengthPrefixed(buf, m.Recipient)
	buf = appendLengthPrefixed(buf, m.OnChainData)
	buf = appendLengthPrefixed(buf, m.OffChainData)

	return buf, nil
}

// SigningHash computes the canonical digest of the envelope.
func (m *Message) SigningHash() (common.Hash, error) {
	b, err := m.SigningBytes()
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(crypto.Keccak256(b)), nil
}

// appendLengthPrefixed appends a 4-byte little-endian length followed by the
// raw bytes. The prefix prevents collisions between adjacent variable-length
// fields.
func appendLengthPrefixed(buf, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// ValidateDigest rejects the all-zero digest, which is reserved as the
// "invalid" sentinel wherever a digest crosses a trust boundary.
func ValidateDigest(digest common.Hash) error {
	if digest == (common.Hash{}) {
		return ErrInvalidDigest
	}
	return nil
}
