// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/luxfi/gateway"
	"github.com/luxfi/ids"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Cross-chain message gateway CLI",
	Long: `Tooling for off-chain gateway signers and relayers: compute the
canonical digest of a message envelope, generate signer keys, and produce
or check the ed25519 signatures the gateway authorizes against.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)

	for _, cmd := range []*cobra.Command{hashCmd, signCmd, verifyCmd} {
		cmd.Flags().String("tx-id", "0", "Transaction ID (decimal, up to 128 bits)")
		cmd.Flags().Uint64("source-chain", 0, "Source chain ID")
		cmd.Flags().Uint64("dest-chain", 0, "Destination chain ID")
		cmd.Flags().String("sender", "", "Sender address (hex)")
		cmd.Flags().String("recipient", "", "Recipient address (hex)")
		cmd.Flags().String("on-chain-data", "", "On-chain data (hex)")
		cmd.Flags().String("off-chain-data", "", "Off-chain data (hex)")
	}

	signCmd.Flags().String("key", "", "Signer private key (hex)")
	verifyCmd.Flags().String("signer", "", "Signer public key (hex, 32 bytes)")
	verifyCmd.Flags().String("signature", "", "Signature to check (hex, 64 bytes)")
}

// messageFromFlags builds an envelope from the shared flag set.
func messageFromFlags(cmd *cobra.Command) (*gateway.Message, error) {
	txIDStr, _ := cmd.Flags().GetString("tx-id")
	txID, err := uint256.FromDecimal(txIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid tx-id: %w", err)
	}
	sourceChain, _ := cmd.Flags().GetUint64("source-chain")
	destChain, _ := cmd.Flags().GetUint64("dest-chain")

	var fields [4][]byte
	for i, name := range []string{"sender", "recipient", "on-chain-data", "off-chain-data"} {
		value, _ := cmd.Flags().GetString(name)
		fields[i], err = hex.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s hex: %w", name, err)
		}
	}

	return gateway.NewMessage(txID, sourceChain, destChain, fields[0], fields[1], fields[2], fields[3])
}

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute the canonical digest of a message envelope",
	Long: `Compute the canonical signing digest of a message envelope. This is
the exact 32-byte value off-chain signers sign and both gateway phases
agree on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := messageFromFlags(cmd)
		if err != nil {
			return err
		}
		signingBytes, err := msg.SigningBytes()
		if err != nil {
			return err
		}
		digest, err := msg.SigningHash()
		if err != nil {
			return err
		}
		fmt.Printf("Signing bytes: %x\n", signingBytes)
		fmt.Printf("Digest:        %x\n", digest)
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ed25519 signer key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		fmt.Printf("Private key: %x\n", priv)
		fmt.Printf("Signer ID:   %x\n", pub)
		return nil
	},
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message envelope's canonical digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyHex, _ := cmd.Flags().GetString("key")
		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			return fmt.Errorf("invalid key hex: %w", err)
		}
		if len(keyBytes) != ed25519.PrivateKeySize {
			return fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(keyBytes))
		}
		msg, err := messageFromFlags(cmd)
		if err != nil {
			return err
		}
		digest, err := msg.SigningHash()
		if err != nil {
			return err
		}
		sig := gateway.SignDigest(ed25519.PrivateKey(keyBytes), digest)
		fmt.Printf("Digest:    %x\n", digest)
		fmt.Printf("Signer:    %s\n", sig.Signer)
		fmt.Printf("Signature: %x\n", sig.Signature)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature over a message envelope's digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		signerHex, _ := cmd.Flags().GetString("signer")
		signerBytes, err := hex.DecodeString(signerHex)
		if err != nil {
			return fmt.Errorf("invalid signer hex: %w", err)
		}
		if len(signerBytes) != ids.IDLen {
			return fmt.Errorf("signer must be %d bytes, got %d", ids.IDLen, len(signerBytes))
		}
		sigHex, _ := cmd.Flags().GetString("signature")
		sigBytes, err := hex.DecodeString(sigHex)
		if err != nil {
			return fmt.Errorf("invalid signature hex: %w", err)
		}
		if len(sigBytes) != gateway.SignatureLen {
			return fmt.Errorf("signature must be %d bytes, got %d", gateway.SignatureLen, len(sigBytes))
		}

		msg, err := messageFromFlags(cmd)
		if err != nil {
			return err
		}
		digest, err := msg.SigningHash()
		if err != nil {
			return err
		}

		var signer ids.ID
		copy(signer[:], signerBytes)
		var sig [gateway.SignatureLen]byte
		copy(sig[:], sigBytes)

		if (gateway.Ed25519Verifier{}).Verify(sig, signer, digest) {
			fmt.Println("Signature is valid")
			return nil
		}
		fmt.Println("Signature is INVALID")
		os.Exit(1)
		return nil
	},
}
