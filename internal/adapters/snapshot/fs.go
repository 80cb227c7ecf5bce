package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	perr "factsongs/internal/platform/errors"
)

// FS stores snapshots as files under a root directory
type FS struct {
	root string
}

var _ Store = (*FS)(nil)

// NewFS creates the root directory when missing
func NewFS(root string) (*FS, error) {
	if root == "" {
		root = "landing"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: create %s", root)
	}
	return &FS{root: root}, nil
}

func (s *FS) path(key string) string { return filepath.Join(s.root, filepath.FromSlash(key)) }

// Put writes through a temp file and renames so readers never see a partial document
func (s *FS) Put(_ context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mkdir for %s", key)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: temp for %s", key)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: write %s", key)
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: close %s", key)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: rename %s", key)
	}
	return nil
}

// Get reads one snapshot
func (s *FS) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, missing(key)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: read %s", key)
	}
	return b, nil
}

// List returns documents whose key starts with prefix, sorted by key
func (s *FS) List(_ context.Context, prefix string) ([]Document, error) {
	var out []Document
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".put-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, Document{Key: key, Size: info.Size(), UpdatedAt: info.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: list %s", prefix)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
