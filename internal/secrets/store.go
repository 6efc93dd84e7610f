// Package secrets keeps named credentials (the assistant API key) in a
// per-user file, sealed with AES-GCM. Not a replacement for an OS keychain,
// but keys never sit in plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrNotFound = errors.New("secrets: not found")

// Vault is a sealed name→secret file. Names are case-insensitive.
type Vault struct {
	path string
}

type vaultFile struct {
	Version int              `json:"version"`
	Entries map[string]entry `json:"entries"`
}

type entry struct {
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// Open locates (and creates the directory for) the default per-user vault.
func Open() (*Vault, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "duofin")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Vault{path: filepath.Join(dir, "keys.json")}, nil
}

// Set seals and stores a secret under name, replacing any previous value.
func (v *Vault) Set(name, value string) error {
	name, err := normName(name)
	if err != nil {
		return err
	}
	vf, err := v.read()
	if err != nil {
		return err
	}
	gcm, err := sealer()
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	vf.Entries[name] = entry{
		Nonce: base64.StdEncoding.EncodeToString(nonce),
		Data:  base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, []byte(value), nil)),
	}
	return v.write(vf)
}

// Get opens the secret stored under name.
func (v *Vault) Get(name string) (string, error) {
	name, err := normName(name)
	if err != nil {
		return "", err
	}
	vf, err := v.read()
	if err != nil {
		return "", err
	}
	e, ok := vf.Entries[name]
	if !ok {
		return "", ErrNotFound
	}
	nonce, err := base64.StdEncoding.DecodeString(e.Nonce)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return "", err
	}
	gcm, err := sealer()
	if err != nil {
		return "", err
	}
	plain, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("unseal %s: %w", name, err)
	}
	return string(plain), nil
}

// Remove drops a secret; removing a missing name is not an error.
func (v *Vault) Remove(name string) error {
	name, err := normName(name)
	if err != nil {
		return err
	}
	vf, err := v.read()
	if err != nil {
		return err
	}
	delete(vf.Entries, name)
	return v.write(vf)
}

func (v *Vault) read() (vaultFile, error) {
	vf := vaultFile{Version: 1, Entries: map[string]entry{}}
	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return vf, nil
		}
		return vf, err
	}
	if err := json.Unmarshal(data, &vf); err != nil {
		return vf, err
	}
	if vf.Entries == nil {
		vf.Entries = map[string]entry{}
	}
	return vf, nil
}

func (v *Vault) write(vf vaultFile) error {
	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return err
	}
	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, v.path)
}

func normName(s string) (string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", errors.New("secrets: name required")
	}
	return s, nil
}

// sealer builds the AES-GCM cipher over a key derived from the local user.
// The point is keeping secrets out of grep's reach, not surviving an
// attacker with the same login.
func sealer() (cipher.AEAD, error) {
	user := os.Getenv("USER")
	key := sha256.Sum256([]byte(fmt.Sprintf("duofin-%s-%s", runtime.GOOS, user)))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Package-level helpers over the default vault.

func Store(name, value string) error {
	v, err := Open()
	if err != nil {
		return err
	}
	return v.Set(name, value)
}

func Fetch(name string) (string, error) {
	v, err := Open()
	if err != nil {
		return "", err
	}
	return v.Get(name)
}

func Delete(name string) error {
	v, err := Open()
	if err != nil {
		return err
	}
	return v.Remove(name)
}
