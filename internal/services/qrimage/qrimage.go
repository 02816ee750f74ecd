// Package qrimage renders PNG images for issued QR codes and stores
// them on local disk. The returned path is persisted on the QR record
// so the serving layer can expose it.
package qrimage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const pngSize = 256

// Renderer turns a QR payload into a stored image. Remove discards a
// previously rendered image when the record it was made for never
// commits.
type Renderer interface {
	Render(payload string) (string, error)
	Remove(url string) error
}

// DiskRenderer writes PNGs under a base directory.
type DiskRenderer struct {
	baseDir   string
	publicURL string
}

func NewDiskRenderer(baseDir, publicURL string) (*DiskRenderer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}
	return &DiskRenderer{baseDir: baseDir, publicURL: publicURL}, nil
}

// Render encodes the payload and returns the public URL of the image.
func (r *DiskRenderer) Render(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR image: %w", err)
	}

	name := uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(r.baseDir, name), png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write QR image: %w", err)
	}
	return r.publicURL + "/" + name, nil
}

// Remove deletes the stored image behind a URL returned by Render.
func (r *DiskRenderer) Remove(url string) error {
	name := path.Base(url)
	if filepath.Ext(name) != ".png" {
		return fmt.Errorf("not a rendered image: %s", url)
	}
	if err := os.Remove(filepath.Join(r.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove QR image: %w", err)
	}
	return nil
}
