// Package keygen generates SSH key pairs for device access.
//
// Keys are ed25519, emitted as PEM-encoded OpenSSH private keys and
// authorized_keys-format public keys.
package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds a generated key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the PEM-encoded OpenSSH private key.
	PrivateKey []byte
	// PublicKey is the public key in authorized_keys format.
	PublicKey []byte
}

// Generate creates a new ed25519 key pair. The comment is embedded in the
// private key for identification and may be empty.
func Generate(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to derive SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(block),
		PublicKey:  ssh.MarshalAuthorizedKey(sshPub),
	}, nil
}
