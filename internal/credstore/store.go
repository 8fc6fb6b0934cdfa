// Package credstore persists one encrypted API key per provider under the
// local config directory. Records are sealed with XChaCha20-Poly1305; the
// symmetric key lives in a separate 0600 file next to the store and never
// leaves the machine.
package credstore

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/subhobhai943/ai-terminal-tool/internal/provider"
)

const (
	storeFile = "credentials.json"
	keyFile   = "credentials.key"

	schemaVersion = 1
)

// ErrCorrupted reports that the persisted store bytes cannot be decrypted
// or parsed. Callers treat the entry as absent and surface a warning; a
// subsequent Save rewrites the store cleanly.
var ErrCorrupted = errors.New("credential store corrupted")

// fileFormat is the on-disk schema. Version mismatches are rejected as
// corruption rather than misparsed.
type fileFormat struct {
	Version int                    `json:"version"`
	Entries map[string]cipherEntry `json:"entries"`
}

// cipherEntry is one sealed credential. The Poly1305 tag inside Data is the
// integrity tag; Nonce is unique per write.
type cipherEntry struct {
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// Store reads and writes the encrypted credential file.
type Store struct {
	dir  string
	aead cipher.AEAD
}

// Open prepares a store rooted at dir, creating the directory and the key
// file on first use. A missing or unusable key file is replaced with a
// fresh key, which renders any existing ciphertext unreadable; loads then
// report ErrCorrupted until the entries are re-saved.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	key, err := loadOrCreateKey(filepath.Join(dir, keyFile))
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Store{dir: dir, aead: aead}, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, decErr := base64.StdEncoding.DecodeString(string(data))
		if decErr == nil && len(key) == chacha20poly1305.KeySize {
			return key, nil
		}
		// Unusable key file: fall through and replace it.
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}

// Save encrypts secret and persists it for the given provider, replacing
// any prior entry. The write goes to a temp file first and is renamed into
// place so a crash mid-write never leaves a partial record.
func (s *Store) Save(id provider.ID, secret string) error {
	ff, err := s.read()
	if err != nil {
		// A corrupted store is replaced wholesale on the next save.
		if !errors.Is(err, ErrCorrupted) {
			return err
		}
		ff = nil
	}
	if ff == nil {
		ff = &fileFormat{Version: schemaVersion, Entries: map[string]cipherEntry{}}
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nil, nonce, []byte(secret), aad(id))
	ff.Entries[string(id)] = cipherEntry{
		Nonce: base64.StdEncoding.EncodeToString(nonce),
		Data:  base64.StdEncoding.EncodeToString(sealed),
	}
	return s.write(ff)
}

// Load decrypts and returns the stored secret for the given provider. The
// second return is false when no credential was ever saved. Undecryptable
// or unparseable store bytes return an error wrapping ErrCorrupted.
func (s *Store) Load(id provider.ID) (string, bool, error) {
	ff, err := s.read()
	if err != nil {
		return "", false, err
	}
	if ff == nil {
		return "", false, nil
	}
	entry, ok := ff.Entries[string(id)]
	if !ok {
		return "", false, nil
	}

	nonce, err := base64.StdEncoding.DecodeString(entry.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return "", false, fmt.Errorf("%w: bad nonce for %s", ErrCorrupted, id)
	}
	sealed, err := base64.StdEncoding.DecodeString(entry.Data)
	if err != nil {
		return "", false, fmt.Errorf("%w: bad ciphertext for %s", ErrCorrupted, id)
	}
	plain, err := s.aead.Open(nil, nonce, sealed, aad(id))
	if err != nil {
		return "", false, fmt.Errorf("%w: decrypt failed for %s", ErrCorrupted, id)
	}
	return string(plain), true, nil
}

// Clear removes the entry for the given provider. Clearing an absent entry
// is a no-op, as is clearing from a corrupted or missing store.
func (s *Store) Clear(id provider.ID) error {
	ff, err := s.read()
	if err != nil || ff == nil {
		if errors.Is(err, ErrCorrupted) {
			return nil
		}
		return err
	}
	if _, ok := ff.Entries[string(id)]; !ok {
		return nil
	}
	delete(ff.Entries, string(id))
	return s.write(ff)
}

// aad binds each ciphertext to its provider and schema version so entries
// cannot be swapped between providers by editing the file.
func aad(id provider.ID) []byte {
	return []byte(fmt.Sprintf("v%d:%s", schemaVersion, id))
}

// read parses the store file. A missing file returns (nil, nil).
func (s *Store) read() (*fileFormat, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, storeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if ff.Version != schemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrCorrupted, ff.Version)
	}
	if ff.Entries == nil {
		ff.Entries = map[string]cipherEntry{}
	}
	return &ff, nil
}

// write marshals the store and atomically replaces the file.
func (s *Store) write(ff *fileFormat) error {
	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, storeFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, storeFile)); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
