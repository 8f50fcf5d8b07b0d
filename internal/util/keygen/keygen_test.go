package keygen

import (
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestGenerate(t *testing.T) {
	pair, err := Generate("devlab")
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	signer, err := ssh.ParsePrivateKey(pair.PrivateKey)
	if err != nil {
		t.Fatalf("generated private key does not parse: %v", err)
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey(pair.PublicKey)
	if err != nil {
		t.Fatalf("generated public key does not parse: %v", err)
	}

	if signer.PublicKey().Type() != pub.Type() {
		t.Errorf("key types disagree: %s vs %s", signer.PublicKey().Type(), pub.Type())
	}
	if !strings.HasPrefix(string(pair.PublicKey), "ssh-ed25519 ") {
		t.Errorf("unexpected public key format: %s", pair.PublicKey)
	}
}

func TestGenerate_DistinctKeys(t *testing.T) {
	a, err := Generate("")
	if err != nil {
		t.Fatalf("failed to generate first pair: %v", err)
	}
	b, err := Generate("")
	if err != nil {
		t.Fatalf("failed to generate second pair: %v", err)
	}
	if string(a.PublicKey) == string(b.PublicKey) {
		t.Error("two generated pairs share a public key")
	}
}
