package credential

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// tokenKey is the well-known entry the credential occupies inside the shared
// settings document. The rest of the document (spreadsheet connection
// settings and anything else) is carried through untouched.
const tokenKey = "token"

// Store is the narrow persistence contract the acquirer depends on.
type Store interface {
	Load() (*Credential, error)
	Save(Credential) error
}

// FileStore persists the credential inside a JSON settings document on disk.
// It assumes a single writer per process; concurrent processes racing on the
// same file are out of scope.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logger.Named("credential_store")}
}

// Load reads the settings document and returns the stored credential, or nil
// if none has ever been stored. A missing or structurally invalid document is
// ErrConfig: the document also carries required spreadsheet settings, so the
// run cannot proceed without it.
func (s *FileStore) Load() (*Credential, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfig, s.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrConfig, s.path, err)
	}

	entry, ok := doc[tokenKey]
	if !ok || bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
		return nil, nil
	}

	var cred Credential
	if err := json.Unmarshal(entry, &cred); err != nil {
		return nil, fmt.Errorf("%w: %q entry in %s: %v", ErrConfig, tokenKey, s.path, err)
	}
	return &cred, nil
}

// Save rewrites the whole document with the new credential, preserving every
// unrelated top-level key. The write goes through a temp-file rename so a
// crash mid-write cannot leave a corrupt document behind.
func (s *FileStore) Save(cred Credential) error {
	doc := map[string]json.RawMessage{}
	if raw, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%w: existing document %s is not valid JSON: %v", ErrPersistence, s.path, err)
		}
	}

	entry, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("%w: encoding credential: %v", ErrPersistence, err)
	}
	doc[tokenKey] = entry

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding document: %v", ErrPersistence, err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPersistence, s.path, err)
	}
	s.log.Debug("Credential cache updated", zap.String("path", s.path))
	return nil
}
