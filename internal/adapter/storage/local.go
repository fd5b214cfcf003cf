package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooLarge is returned when an upload exceeds its size limit.
var ErrTooLarge = errors.New("file too large")

// Object describes a stored file.
type Object struct {
	Path     string // relative to the storage root
	Size     int64
	Checksum string // hex sha256
}

// Local stores uploads on the local filesystem under a root directory.
type Local struct {
	root string
	log  *zap.Logger
}

// NewLocal creates the root directory if needed.
func NewLocal(root string, log *zap.Logger) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, log: log}, nil
}

// Save streams r into dir under a generated name keeping the extension of fileName.
// At most limit bytes are accepted; a larger body is removed and ErrTooLarge returned.
func (l *Local) Save(ctx context.Context, dir, fileName string, r io.Reader, limit int64) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.Join(filepath.Clean("/" + dir)[1:], uuid.NewString()+safeExt(fileName))
	full := filepath.Join(l.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), io.LimitReader(r, limit+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if n > limit {
		_ = os.Remove(full)
		return nil, ErrTooLarge
	}

	l.log.Debug("stored upload", zap.String("path", rel), zap.Int64("size", n))
	return &Object{Path: rel, Size: n, Checksum: hex.EncodeToString(h.Sum(nil))}, nil
}

// Open opens a stored object for reading.
func (l *Local) Open(path string) (*os.File, error) {
	return os.Open(l.abs(path))
}

// Remove deletes a stored object. Missing files are not an error.
func (l *Local) Remove(path string) error {
	if err := os.Remove(l.abs(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveDir deletes a directory tree under the root.
func (l *Local) RemoveDir(dir string) error {
	return os.RemoveAll(l.abs(dir))
}

func (l *Local) abs(path string) string {
	return filepath.Join(l.root, filepath.Clean("/" + path)[1:])
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
