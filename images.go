package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// Optimizer is an optional image re-encoding capability. A nil Optimizer
// means uploads are stored exactly as received.
type Optimizer interface {
	// Optimize re-encodes the file at path in place. Returning an error
	// leaves the original file untouched and is never fatal to the upload.
	Optimize(path string) error
}

// Images stores uploaded files and lists the merged gallery across the
// uploads directory and any extra asset folders under the static dir.
type Images struct {
	staticDir   string
	galleryDirs []string
	optimizer   Optimizer
	logger      echo.Logger
}

// NewImages creates the upload manager. galleryDirs are additional folders
// under staticDir whose files appear in the gallery listing (read-only there;
// only uploads can be deleted).
func NewImages(staticDir string, galleryDirs []string, optimizer Optimizer, logger echo.Logger) *Images {
	return &Images{
		staticDir:   staticDir,
		galleryDirs: galleryDirs,
		optimizer:   optimizer,
		logger:      logger,
	}
}

func (m *Images) uploadsDir() string {
	return filepath.Join(m.staticDir, uploadsSubdir)
}

// sanitizeBaseName slugs the name part of an uploaded filename while keeping
// its extension, so "My Pic (1).PNG" becomes "my-pic-1.png".
func sanitizeBaseName(name string) string {
	name = filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(name))
	base := Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "image"
	}
	return base + ext
}

// Upload validates and stores one uploaded file. The stored name is a short
// random hex token prefixed to the sanitized original name, which avoids
// collisions while keeping the name recognizable in the gallery.
func (m *Images) Upload(name string, size int64, src io.Reader) (Image, error) {
	if name == "" || size == 0 {
		return Image{}, &BadRequestError{Reason: "no image file provided"}
	}
	if size > maxUploadSize {
		return Image{}, &BadRequestError{Reason: "file too large (max 10MB)"}
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedImageExts[ext] {
		return Image{}, &BadRequestError{Reason: fmt.Sprintf("file type %q not allowed", ext)}
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	filename := token + "-" + sanitizeBaseName(name)

	dir := m.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Image{}, &ServerError{Op: "create uploads dir", Err: err}
	}
	path := filepath.Join(dir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return Image{}, &ServerError{Op: "create upload", Err: err}
	}
	written, err := io.Copy(dst, io.LimitReader(src, maxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return Image{}, &ServerError{Op: "write upload", Err: err}
	}
	if written > maxUploadSize {
		os.Remove(path)
		return Image{}, &BadRequestError{Reason: "file too large (max 10MB)"}
	}

	// Raster formats get an opportunistic re-encode. Failure is logged and
	// swallowed: the stored original is already a valid outcome.
	if m.optimizer != nil && ext != ".svg" {
		if err := m.optimizer.Optimize(path); err != nil && m.logger != nil {
			m.logger.Warnf("image optimize %s: %v", filename, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Image{}, &ServerError{Op: "stat upload", Err: err}
	}
	return Image{
		Filename:    filename,
		URL:         "/public/" + uploadsSubdir + "/" + filename,
		StoragePath: filepath.Join(uploadsSubdir, filename),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// Gallery lists the uploads directory plus the configured asset folders,
// newest first by modification time.
func (m *Images) Gallery() ([]Image, error) {
	dirs := append([]string{uploadsSubdir}, m.galleryDirs...)
	var images []Image
	for _, sub := range dirs {
		dir := filepath.Join(m.staticDir, sub)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, &ServerError{Op: "read gallery dir", Err: err}
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !allowedImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			images = append(images, Image{
				Filename:    entry.Name(),
				URL:         "/public/" + sub + "/" + entry.Name(),
				StoragePath: filepath.Join(sub, entry.Name()),
				Size:        info.Size(),
				ModTime:     info.ModTime(),
			})
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].ModTime.After(images[j].ModTime)
	})
	return images, nil
}

// Delete removes an uploaded file. Only files that resolve inside the
// uploads directory can be deleted; the extra gallery folders are read-only
// and path traversal out of uploads is refused.
func (m *Images) Delete(filename string) error {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return &NotFoundError{Resource: "image", Name: filename}
	}
	dir := m.uploadsDir()
	path := filepath.Join(dir, base)
	resolved := filepath.Clean(path)
	if !strings.HasPrefix(resolved, filepath.Clean(dir)+string(filepath.Separator)) {
		return &NotFoundError{Resource: "image", Name: filename}
	}
	if err := os.Remove(resolved); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Resource: "image", Name: base}
		}
		return &ServerError{Op: "delete image", Err: err}
	}
	return nil
}
