package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/kovzhu/mysite/internal/apperr"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Sanitize reduces a raw uploaded filename to a storage-safe base name:
// directory components are stripped, spaces become underscores, anything
// outside [A-Za-z0-9._-] is removed, and leading dots are dropped so the
// result can never escape its directory or hide itself.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._-")
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// ValidateFilename sanitizes a raw uploaded filename and checks its
// extension against the namespace allow-list. It is the first gate of the
// upload pipeline, before any permission check or write.
func ValidateFilename(ns Namespace, rawName string) (string, error) {
	name := Sanitize(rawName)
	if name == "" {
		return "", fmt.Errorf("%w: empty filename", apperr.ErrValidation)
	}

	ext := strings.ToLower(path.Ext(name))
	if ext == "" || ext == name {
		return "", fmt.Errorf("%w: filename has no extension", apperr.ErrValidation)
	}
	if !ns.AllowsExt(ext) {
		return "", fmt.Errorf("%w: file type %s is not allowed", apperr.ErrValidation, ext)
	}

	return name, nil
}

// Namer derives collision-free storage paths. Existence checks go through
// the Storage interface so the guarantee holds on any backend.
type Namer struct {
	store Storage
	now   func() time.Time
}

func NewNamer(store Storage) *Namer {
	return &Namer{store: store, now: time.Now}
}

// Resolve validates the raw filename against the namespace allow-list and
// returns the namespace-relative path the asset will be stored under. If
// the destination is occupied the name is disambiguated per the
// namespace's collision policy; an existing asset is never overwritten.
func (n *Namer) Resolve(ctx context.Context, ns Namespace, rawName string) (string, error) {
	name, err := ValidateFilename(ns, rawName)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(name))

	// Image namespaces are transcoded to JPEG by the processor, so the
	// asset is named for its final format up front; the content type a
	// reader derives from the extension then matches the bytes.
	if ns.ImageTyped && ext != ".jpg" && ext != ".jpeg" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
		ext = ".jpg"
	}

	rel := name
	if ns.YearPartitioned {
		rel = fmt.Sprintf("%d/%s", n.now().UTC().Year(), name)
	}

	base := strings.TrimSuffix(rel, ext)
	candidate := rel
	for i := 0; ; i++ {
		exists, err := n.store.Exists(ctx, ns.ObjectName(candidate))
		if err != nil {
			return "", fmt.Errorf("checking destination path: %w", err)
		}
		if !exists {
			return candidate, nil
		}

		switch {
		case ns.Collision == CollisionTimestamp && i == 0:
			candidate = fmt.Sprintf("%s_%s%s", base, n.now().UTC().Format("20060102150405"), ext)
		case ns.Collision == CollisionTimestamp:
			// Same-second re-upload: fall back to a counter on top of the
			// timestamp.
			candidate = fmt.Sprintf("%s_%s_%03d%s", base, n.now().UTC().Format("20060102150405"), i, ext)
		default:
			candidate = fmt.Sprintf("%s_%03d%s", base, i+1, ext)
		}
	}
}
