// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded media (manga avatars, thumbnails, page images
and user avatars) and hands back opaque references.

A reference is a slash-separated path relative to the media root, for example
"manga/avatars/0191f6c2-....png". References are what the database stores; the
public URL is derived at read time through [Local.URL], so moving the media
host only requires a configuration change.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// ErrInvalidRef is returned when a reference escapes the media root.
var ErrInvalidRef = errors.New("storage: invalid reference")

// Local stores blobs on the local filesystem under a single root directory.
type Local struct {
	root    string
	baseURL string
}

// NewLocal returns a store rooted at root. baseURL is prepended to references
// when building public URLs (e.g. "/media" or "https://cdn.example.com").
func NewLocal(root, baseURL string) *Local {
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Root is the directory served under the media base URL.
func (store *Local) Root() string {
	return store.root
}

/*
Save copies r into a new file below dir and returns its reference.

The stored name is a fresh UUIDv7 plus the lowercased extension of filename, so
client-supplied names never reach the filesystem.

Parameters:
  - ctx: context.Context (checked before any I/O)
  - dir: string logical folder, e.g. "manga/avatars"
  - filename: string original upload name (only its extension is kept)
  - r: io.Reader blob contents

Returns:
  - string: the new reference
  - error: I/O failures
*/
func (store *Local) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := path.Join(dir, uuid.New()+strings.ToLower(filepath.Ext(filename)))
	target, err := store.resolve(ref)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create %s: %w", dir, err)
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create blob: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: failed to write blob: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: failed to flush blob: %w", err)
	}

	return ref, nil
}

// Open returns a reader over the blob identified by ref.
func (store *Local) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := store.resolve(ref)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open %s: %w", ref, err)
	}
	return file, nil
}

// Delete removes the blob. Deleting a missing blob is not an error.
func (store *Local) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := store.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: failed to delete %s: %w", ref, err)
	}
	return nil
}

// URL returns the public URL of ref, or "" for an empty reference.
func (store *Local) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return store.baseURL + "/" + ref
}

func (store *Local) resolve(ref string) (string, error) {
	native := filepath.FromSlash(ref)
	if ref == "" || !filepath.IsLocal(native) {
		return "", ErrInvalidRef
	}
	return filepath.Join(store.root, native), nil
}
