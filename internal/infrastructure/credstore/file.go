// Package credstore persists the bearer credential between runs.
package credstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/ecoshop/storefront/internal/core/domain"
)

const (
	credentialFileName = "credential.json"
	sealedPrefix       = "sealed:"
	nonceSize          = 24
)

// FileStore keeps credentials in a JSON object on disk, one entry per
// application key. With a secret configured, values are sealed with
// nacl/secretbox before they are written.
type FileStore struct {
	path string
	key  string

	mu     sync.Mutex
	secret *[32]byte
}

// FileOption customises a FileStore.
type FileOption func(*FileStore) error

// WithSecret seals stored values with a 32-byte key given as 64 hex
// characters. An empty string leaves values in clear.
func WithSecret(hexKey string) FileOption {
	return func(s *FileStore) error {
		hexKey = strings.TrimSpace(hexKey)
		if hexKey == "" {
			return nil
		}
		raw, err := hex.DecodeString(hexKey)
		if err != nil {
			return fmt.Errorf("decode credential secret: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("credential secret must be 32 bytes, got %d", len(raw))
		}
		var k [32]byte
		copy(k[:], raw)
		s.secret = &k
		return nil
	}
}

// DefaultPath returns ~/.ecoshop/credential.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".ecoshop", credentialFileName), nil
}

// NewFileStore creates a store writing to path under key. An empty path
// selects DefaultPath.
func NewFileStore(path, key string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if key == "" {
		return nil, errors.New("credential key cannot be empty")
	}
	s := &FileStore{path: path, key: key}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored credential or domain.ErrNoCredential.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[s.key]
	if !ok || value == "" {
		return "", domain.ErrNoCredential
	}
	return s.open(value)
}

// Save writes credential under the store key, keeping other keys intact.
func (s *FileStore) Save(ctx context.Context, credential string) error {
	if credential == "" {
		return errors.New("credential cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		// An unreadable file is replaced rather than blocking login.
		entries = map[string]string{}
	}
	value, err := s.seal(credential)
	if err != nil {
		return err
	}
	entries[s.key] = value
	return s.write(entries)
}

// Clear removes the entry. Clearing an absent credential is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("remove credential file: %w", rmErr)
		}
		return nil
	}
	if _, ok := entries[s.key]; !ok {
		return nil
	}
	delete(entries, s.key)
	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove credential file: %w", err)
		}
		return nil
	}
	return s.write(entries)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	entries := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse credential file: %w", err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileStore) seal(plain string) (string, error) {
	if s.secret == nil {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, s.secret)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

func (s *FileStore) open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if s.secret == nil {
		return "", fmt.Errorf("credential is sealed but no secret is configured")
	}
	box, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", errors.New("credential is corrupt")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, s.secret)
	if !ok {
		return "", errors.New("credential cannot be opened with the configured secret")
	}
	return string(plain), nil
}
