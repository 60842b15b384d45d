package leafimage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainerrors "cropcare/internal/core/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
)

// DefaultAccept mirrors what a phone camera or gallery picker hands over.
var DefaultAccept = []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.gif", "*.bmp", "*.heic", "*.heif"}

const DefaultMaxBytes int64 = 10 << 20

// Rejection reasons, recorded under the errors.CtxReason context key.
const (
	ReasonName      = "name"
	ReasonDirectory = "directory"
	ReasonEmpty     = "empty"
	ReasonTooLarge  = "too_large"
	ReasonType      = "type"
)

// Ref is an opaque reference to a leaf photograph. Nothing downstream of the
// loader decodes or inspects the image itself.
type Ref struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	MIME   string `json:"mime"`
	Size   int64  `json:"size"`
}

func (r Ref) IsZero() bool {
	return strings.TrimSpace(r.Source) == ""
}

// Loader validates candidate images against the accepted patterns, the size
// limit and the sniffed content type.
type Loader struct {
	patterns []string
	accept   []glob.Glob
	maxBytes int64
}

func NewLoader(patterns []string, maxBytes int64) (*Loader, error) {
	if len(patterns) == 0 {
		patterns = DefaultAccept
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(strings.TrimSpace(p)))
		if err != nil {
			return nil, fmt.Errorf("invalid image accept pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return &Loader{
		patterns: append([]string(nil), patterns...),
		accept:   compiled,
		maxBytes: maxBytes,
	}, nil
}

func (l *Loader) Patterns() []string {
	return append([]string(nil), l.patterns...)
}

func (l *Loader) MaxBytes() int64 {
	return l.maxBytes
}

// Accepts reports whether the file name matches one of the accept patterns.
func (l *Loader) Accepts(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, g := range l.accept {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Load turns a path on disk into a Ref.
func (l *Loader) Load(path string) (Ref, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Ref{}, domainerrors.Precondition("load_image", "image path is empty")
	}
	if !l.Accepts(path) {
		return Ref{}, l.rejected(path, ReasonName, "file name does not match accepted image types")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Ref{}, domainerrors.AddContext(domainerrors.New(domainerrors.CodeNotFound, "image file not found"), domainerrors.CtxImage, path)
		}
		return Ref{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "stat image")
	}
	if info.IsDir() {
		return Ref{}, l.rejected(path, ReasonDirectory, "path is a directory")
	}
	if info.Size() == 0 {
		return Ref{}, l.rejected(path, ReasonEmpty, "image file is empty")
	}
	if info.Size() > l.maxBytes {
		return Ref{}, l.rejected(path, ReasonTooLarge, fmt.Sprintf("image exceeds %d bytes", l.maxBytes))
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Ref{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "detect image type")
	}
	if !isImage(mt) {
		return Ref{}, l.rejected(path, ReasonType, fmt.Sprintf("content type %s is not an image", mt.String()))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Ref{
		Source: abs,
		Name:   filepath.Base(path),
		MIME:   mt.String(),
		Size:   info.Size(),
	}, nil
}

// FromBytes builds a Ref for an uploaded payload. The bytes themselves are
// not retained.
func (l *Loader) FromBytes(name string, data []byte) (Ref, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ref{}, domainerrors.Precondition("load_image", "upload has no file name")
	}
	if !l.Accepts(name) {
		return Ref{}, l.rejected(name, ReasonName, "file name does not match accepted image types")
	}
	if len(data) == 0 {
		return Ref{}, l.rejected(name, ReasonEmpty, "image file is empty")
	}
	if int64(len(data)) > l.maxBytes {
		return Ref{}, l.rejected(name, ReasonTooLarge, fmt.Sprintf("image exceeds %d bytes", l.maxBytes))
	}
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return Ref{}, l.rejected(name, ReasonType, fmt.Sprintf("content type %s is not an image", mt.String()))
	}
	return Ref{
		Source: "upload:" + filepath.Base(name),
		Name:   filepath.Base(name),
		MIME:   mt.String(),
		Size:   int64(len(data)),
	}, nil
}

func (l *Loader) rejected(path, reason, msg string) error {
	de := &domainerrors.DomainError{Code: domainerrors.CodeValidationError, Message: msg}
	return de.WithContext(domainerrors.CtxImage, path).WithContext(domainerrors.CtxReason, reason)
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
