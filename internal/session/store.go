package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsanano/storefront-client/internal/model"
)

// Store persists the {user, token} pair across process restarts. The
// two values are written and cleared together; a load that finds only
// one of them reports no session.
type Store interface {
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

const (
	userFile  = "user.json"
	tokenFile = "token"
)

// FileStore keeps the pair as two files in a state directory, the
// user record JSON-encoded and the token raw.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context) (*model.Session, error) {
	userData, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	tokenData, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		// Half a pair is no session.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if len(tokenData) == 0 {
		return nil, nil
	}
	return &model.Session{User: user, Token: string(tokenData)}, nil
}

func (s *FileStore) Save(_ context.Context, sess model.Session) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, userFile), userData); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, tokenFile), []byte(sess.Token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	for _, name := range []string{userFile, tokenFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

// writeFileAtomic writes via temp file + rename so each key is replaced
// whole. The pair itself is not transactional across a crash between
// the two writes.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
