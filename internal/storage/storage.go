// Package storage is the attachment store for goal, project and wishlist
// images and profile avatars. The filesystem implementation keeps objects
// under the user data dir and hands back file:// URLs.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("storage: object not found")

// Store is the object interface the app codes against.
type Store interface {
	Upload(bucket, name string, data []byte) (string, error)
	Remove(bucket, name string) error
}

// FileStore writes objects under root/bucket/name.
type FileStore struct {
	root string
}

// NewFileStore roots the store at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: dir}, nil
}

func (s *FileStore) objectPath(bucket, name string) (string, error) {
	bucket = filepath.Clean(bucket)
	name = filepath.Clean(name)
	if strings.Contains(bucket, "..") || strings.Contains(name, "..") ||
		filepath.IsAbs(bucket) || filepath.IsAbs(name) {
		return "", fmt.Errorf("storage: bad object key %q/%q", bucket, name)
	}
	return filepath.Join(s.root, bucket, name), nil
}

// Upload writes the object and returns a URL usable by the UI.
func (s *FileStore) Upload(bucket, name string, data []byte) (string, error) {
	p, err := s.objectPath(bucket, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, p); err != nil {
		return "", err
	}
	return "file://" + p, nil
}

// Remove deletes the object; missing objects report ErrNotFound.
func (s *FileStore) Remove(bucket, name string) error {
	p, err := s.objectPath(bucket, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
