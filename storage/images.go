// Package storage keeps uploaded club images on the local disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paradoks/clubhub/utils"
	"golang.org/x/image/draw"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/files/"

const (
	AvatarMaxBytes = 2 << 20
	BannerMaxBytes = 5 << 20

	// Decoded images are held in memory in full, so their dimensions are
	// bounded independently of the encoded size.
	MaxImageSide   = 8192
	MaxImagePixels = 40_000_000

	avatarSize   = 200
	bannerWidth  = 1200
	bannerHeight = 400
)

// Upload is an image as received from a client.
type Upload struct {
	File        io.Reader
	Size        int64
	ContentType string
}

type Images struct {
	dir    string
	logger *slog.Logger
}

func NewImages(dir string, logger *slog.Logger) (*Images, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Images{dir: dir, logger: logger}, nil
}

func (im *Images) Dir() string {
	return im.dir
}

// SaveAvatar crops the upload to a centered square, scales it to 200x200 and
// returns its public URL.
func (im *Images) SaveAvatar(up Upload) (string, error) {
	src, format, err := im.decode(up, AvatarMaxBytes, "2MB")
	if err != nil {
		return "", err
	}

	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	return im.write(scale(src, crop, avatarSize, avatarSize), format)
}

// SaveBanner scales the upload to 1200x400 and returns its public URL.
func (im *Images) SaveBanner(up Upload) (string, error) {
	src, format, err := im.decode(up, BannerMaxBytes, "5MB")
	if err != nil {
		return "", err
	}
	return im.write(scale(src, src.Bounds(), bannerWidth, bannerHeight), format)
}

// Remove deletes a file previously returned by SaveAvatar or SaveBanner.
// Failures are logged, never returned.
func (im *Images) Remove(url string) {
	if !strings.HasPrefix(url, PublicPrefix) {
		return
	}
	path, ok := im.Path(strings.TrimPrefix(url, PublicPrefix))
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		im.logger.Warn("failed to delete old image", "path", path, "error", err)
	}
}

// Path maps a file name to its location inside the upload directory. It
// rejects names that would escape it.
func (im *Images) Path(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(im.dir, name), true
}

func (im *Images) decode(up Upload, limit int64, limitText string) (image.Image, string, error) {
	if up.File == nil || up.Size == 0 {
		return nil, "", utils.BadRequest("Please select a file to upload")
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, "", utils.BadRequest("Only image files are allowed")
	}
	if up.Size > limit {
		return nil, "", utils.BadRequest("File size must be less than " + limitText)
	}

	data, err := io.ReadAll(io.LimitReader(up.File, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, "", utils.BadRequest("File size must be less than " + limitText)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "png" && format != "jpeg") {
		return nil, "", utils.BadRequest(`file format not allowed, use one of these: ["png", "jpg"]`)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide || cfg.Width*cfg.Height > MaxImagePixels {
		return nil, "", utils.BadRequest(fmt.Sprintf("Image dimensions must not exceed %dx%d pixels", MaxImageSide, MaxImageSide))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", utils.BadRequest("Failed to process image")
	}
	return img, format, nil
}

func (im *Images) write(img image.Image, format string) (string, error) {
	ext := "png"
	if format == "jpeg" {
		ext = "jpg"
	}
	name := uuid.NewString() + "." + ext
	path := filepath.Join(im.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if format == "jpeg" {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(f, img)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}

	return PublicPrefix + name, nil
}

func scale(src image.Image, from image.Rectangle, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, from, draw.Over, nil)
	return dst
}
