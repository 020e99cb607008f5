// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// A minimal end-to-end run of the gateway: initialize, register signer
// sets, claim a message, then consume it with a full signature batch.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/luxfi/gateway"
	"github.com/luxfi/gateway/store"
	"github.com/luxfi/ids"
)

const (
	sourceChain = uint64(1)
	localChain  = uint64(2)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	platform1, err := newSigner()
	if err != nil {
		return err
	}
	platform2, err := newSigner()
	if err != nil {
		return err
	}
	validator, err := newSigner()
	if err != nil {
		return err
	}

	authority := ids.ID{0xAD}
	gw := gateway.New(store.NewMemStore(), gateway.Ed25519Verifier{})
	if err := gw.Initialize(authority, localChain); err != nil {
		return err
	}
	if err := gw.InitializeRegistry(
		authority, gateway.TierPlatform, localChain,
		[]ids.ID{platform1.id, platform2.id}, 2,
	); err != nil {
		return err
	}
	if err := gw.InitializeRegistry(
		authority, gateway.TierChain, sourceChain,
		[]ids.ID{validator.id}, 1,
	); err != nil {
		return err
	}

	msg, err := gateway.NewMessage(
		uint256.NewInt(42),
		sourceChain,
		localChain,
		[]byte{0xAA},
		[]byte{0xBB},
		[]byte("Hello from chain 1 to chain 2!"),
		nil,
	)
	if err != nil {
		return err
	}
	digest, err := msg.SigningHash()
	if err != nil {
		return err
	}
	fmt.Printf("Message digest: %x\n", digest)

	batch := []gateway.Signature{
		gateway.SignDigest(platform1.key, digest),
		gateway.SignDigest(platform2.key, digest),
		gateway.SignDigest(validator.key, digest),
	}

	if err := gw.Claim(msg, batch[:2]); err != nil {
		return err
	}
	fmt.Println("Claimed tx id 42")

	result, err := gw.Consume(ids.ID{0x4E}, msg, batch)
	if err != nil {
		return err
	}
	fmt.Printf("Consumed: platform=%d chain=%d total=%d\n",
		result.PlatformSignatures, result.ChainSignatures, result.TotalValid)

	mark, _, err := gw.Watermark(sourceChain)
	if err != nil {
		return err
	}
	fmt.Printf("Watermark for chain %d: %s\n", sourceChain, mark.Dec())
	return nil
}

type signer struct {
	key ed25519.PrivateKey
	id  ids.ID
}

func newSigner() (signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return signer{}, err
	}
	var id ids.ID
	copy(id[:], pub)
	return signer{key: priv, id: id}, nil
}
