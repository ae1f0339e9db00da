package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"grit/pkg/repo"
)

// Signatures are stored in the commit's gpgsig header as
// "sshsig-v1:<format>:<base64 pubkey>:<base64 sig>", signed over the
// unsigned commit bytes.
const sigEncodingVersion = "sshsig-v1"

// newSSHCommitSigner loads an SSH private key and returns a CommitSigner
// for it along with the path of the key actually used. An empty keyPath
// falls back to GRIT_SSH_SIGN_KEY and then the usual ~/.ssh key files.
func newSSHCommitSigner(keyPath string) (repo.CommitSigner, string, error) {
	if keyPath == "" {
		keyPath = os.Getenv("GRIT_SSH_SIGN_KEY")
	}
	keyPath, err := findSigningKey(keyPath)
	if err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", keyPath, err)
	}
	key, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", keyPath, err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(key.PublicKey().Marshal())

	sign := func(payload []byte) (string, error) {
		sig, err := key.Sign(rand.Reader, payload)
		if err != nil {
			return "", fmt.Errorf("sign commit: %w", err)
		}
		return strings.Join([]string{
			sigEncodingVersion,
			sig.Format,
			pubB64,
			base64.StdEncoding.EncodeToString(sig.Blob),
		}, ":"), nil
	}
	return sign, keyPath, nil
}

// findSigningKey resolves an explicit key path (with ~ expansion), or
// probes the conventional private key files under ~/.ssh.
func findSigningKey(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		if after, ok := strings.CutPrefix(path, "~/"); ok {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, after)
		}
		return filepath.Abs(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		candidate := filepath.Join(home, ".ssh", name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no SSH signing key: pass --sign-key, set GRIT_SSH_SIGN_KEY, or provide ~/.ssh/id_ed25519")
}
