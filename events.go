// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
)

// Event is a gateway notification. Events are observational: no gateway
// behavior depends on whether anyone consumes them.
type Event interface {
	eventName() string
}

// SendRequested is emitted when an outbound message is accepted for relay.
type SendRequested struct {
	TxID          uint256.Int
	Sender        ids.ID
	Recipient     []byte
	DestChainID   uint64
	ChainData     []byte
	Confirmations uint16
}

// TxClaimed is emitted when a claim creates the replay record for a tx id.
type TxClaimed struct {
	TxID          uint256.Int
	SourceChainID uint64
}

// MessageProcessed is emitted when a consume destroys the replay record.
type MessageProcessed struct {
	TxID          uint256.Int
	SourceChainID uint64
	Relayer       ids.ID
}

// SystemStatusChanged is emitted when the gateway is enabled or disabled.
type SystemStatusChanged struct {
	Enabled bool
}

func (SendRequested) eventName() string       { return "send_requested" }
func (TxClaimed) eventName() string           { return "tx_claimed" }
func (MessageProcessed) eventName() string    { return "message_processed" }
func (SystemStatusChanged) eventName() string { return "system_status_changed" }

// Emitter receives gateway events.
type Emitter interface {
	Emit(evt Event)
}

// NoOpEmitter discards all events.
type NoOpEmitter struct{}

func (NoOpEmitter) Emit(Event) {}

// ChannelEmitter fans events out to a buffered channel. Emit never blocks:
// if the channel is full the event is dropped, since no gateway operation
// may wait on an observer.
type ChannelEmitter struct {
	ch chan Event
}

// NewChannelEmitter creates an emitter with the given buffer size.
func NewChannelEmitter(size int) *ChannelEmitter {
	return &ChannelEmitter{ch: make(chan Event, size)}
}

// Events returns the receive side of the emitter.
func (e *ChannelEmitter) Events() <-chan Event {
	return e.ch
}

func (e *ChannelEmitter) Emit(evt Event) {
	select {
	case e.ch <- evt:
	default:
	}
}
