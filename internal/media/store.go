// Package media stores uploaded images on local disk and serves them under a base URL.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"campgo/internal/domain"

	"github.com/google/uuid"
)

var ErrBadName = errors.New("invalid media name")

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type Store interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (domain.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// Disk writes uploads to Dir/uploads/<folder>/<uuid><ext>. The public id is the
// path relative to Dir, so it can be handed back to Delete.
type Disk struct {
	Dir     string
	BaseURL string // e.g. "/media"
	MaxSize int64
}

func NewDisk(dir, baseURL string) *Disk {
	return &Disk{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxSize: 5 << 20}
}

func (d *Disk) Upload(ctx context.Context, folder, filename string, r io.Reader) (domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}
	if folder != "" && (strings.ContainsAny(folder, `/\`) || folder == "." || folder == "..") {
		return domain.Image{}, fmt.Errorf("%w: bad folder %q", ErrBadName, folder)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return domain.Image{}, fmt.Errorf("%w: unsupported extension %q", ErrBadName, ext)
	}

	publicID := path.Join("uploads", folder, uuid.NewString()+ext)
	full, err := d.resolve(publicID)
	if err != nil {
		return domain.Image{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return domain.Image{}, err
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Image{}, err
	}
	n, err := io.Copy(f, io.LimitReader(r, d.MaxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > d.MaxSize {
		err = fmt.Errorf("%w: file larger than %d bytes", ErrBadName, d.MaxSize)
	}
	if err != nil {
		_ = os.Remove(full)
		return domain.Image{}, err
	}

	return domain.Image{URL: d.BaseURL + "/" + publicID, PublicID: publicID}, nil
}

func (d *Disk) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := d.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a public id to a file path, refusing anything outside Dir.
func (d *Disk) resolve(publicID string) (string, error) {
	if publicID == "" || strings.Contains(publicID, "\\") || path.IsAbs(publicID) {
		return "", ErrBadName
	}
	clean := path.Clean(publicID)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrBadName
	}
	root, err := filepath.Abs(d.Dir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	if !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrBadName
	}
	return full, nil
}

// Folder returns the upload folder a public id lives in, or "" for ids
// stored directly under uploads/.
func Folder(publicID string) string {
	parts := strings.Split(path.Clean(publicID), "/")
	if len(parts) != 3 || parts[0] != "uploads" {
		return ""
	}
	return parts[1]
}
