package storage

import (
	"path"
	"strings"
)

// CollisionPolicy picks how the Namer disambiguates an occupied path.
type CollisionPolicy int

const (
	// CollisionCounter appends a zero-padded counter: name_001.jpg.
	CollisionCounter CollisionPolicy = iota
	// CollisionTimestamp appends a UTC timestamp: name_20240131120000.jpg.
	CollisionTimestamp
)

// Namespace is one named bucket of uploads: its storage directory, the
// extension allow-list, and the pagination and collision settings of the
// collection it backs.
type Namespace struct {
	Name string
	Dir  string
	// Prefix is this namespace's path relative to the collection root.
	// It is empty for registered namespaces and set by Sub; stored paths
	// recorded on assets include it, so they stay resolvable through the
	// base namespace no matter how the asset's category column changes
	// later.
	Prefix          string
	Exts            []string
	YearPartitioned bool
	ImageTyped      bool
	Collision       CollisionPolicy
	PageSize        int
}

var (
	imageExts    = []string{".png", ".jpg", ".jpeg", ".gif"}
	videoExts    = []string{".mp4", ".webm", ".ogg"}
	documentExts = []string{".pdf", ".epub", ".mobi", ".azw3", ".txt", ".doc", ".docx"}
	// Blog posts accept images, video and audio attachments.
	blogMediaExts = []string{".png", ".jpg", ".jpeg", ".gif", ".mp4", ".webm", ".ogg", ".mp3", ".wav"}
)

var (
	Gallery = Namespace{
		Name:            "gallery",
		Dir:             "gallery_images",
		Exts:            imageExts,
		YearPartitioned: true,
		ImageTyped:      true,
		Collision:       CollisionTimestamp,
		PageSize:        20,
	}

	Library = Namespace{
		Name:      "library",
		Dir:       "library_books",
		Exts:      documentExts,
		Collision: CollisionTimestamp,
		PageSize:  20,
	}

	BlogMedia = Namespace{
		Name:      "blog-media",
		Dir:       "blog_media",
		Exts:      blogMediaExts,
		Collision: CollisionCounter,
	}

	ProjectImages = Namespace{
		Name:      "project-images",
		Dir:       "project_images",
		Exts:      imageExts,
		Collision: CollisionCounter,
	}
)

// Collections holds the near-identical side galleries, parameterized here
// instead of duplicated per model.
var Collections = map[string]Namespace{
	"guitar-photos":       photoCollection("guitar-photos", "guitar_photos"),
	"guitar-videos":       videoCollection("guitar-videos", "guitar_videos"),
	"book-photos":         photoCollection("book-photos", "book_photos"),
	"exercise-photos":     photoCollection("exercise-photos", "exercise_photos"),
	"reading-quotes":      photoCollection("reading-quotes", "reading_quote_photos"),
	"intellectual-photos": photoCollection("intellectual-photos", "intellectual_photos"),
	"fragmented-quotes":   photoCollection("fragmented-quotes", "fragmented_quote_photos"),
	"collection-videos":   videoCollection("collection-videos", "collection_videos"),
}

func photoCollection(name, dir string) Namespace {
	return Namespace{
		Name:       name,
		Dir:        dir,
		Exts:       imageExts,
		ImageTyped: true,
		Collision:  CollisionCounter,
		PageSize:   20,
	}
}

func videoCollection(name, dir string) Namespace {
	return Namespace{
		Name:      name,
		Dir:       dir,
		Exts:      videoExts,
		Collision: CollisionCounter,
		PageSize:  20,
	}
}

// CollectionByName resolves one of the side-gallery namespaces.
func CollectionByName(name string) (Namespace, bool) {
	ns, ok := Collections[name]
	return ns, ok
}

// NamespaceFor resolves any collection tag stored on a MediaAsset back to
// its namespace.
func NamespaceFor(collection string) (Namespace, bool) {
	switch collection {
	case Gallery.Name:
		return Gallery, true
	case Library.Name:
		return Library, true
	}
	return CollectionByName(collection)
}

// Sub returns a copy of the namespace rooted in a subdirectory, used for
// the library's per-category folders. The subdirectory name is sanitized
// the same way filenames are.
func (ns Namespace) Sub(dir string) Namespace {
	sub := Sanitize(dir)
	ns.Dir = path.Join(ns.Dir, sub)
	ns.Prefix = path.Join(ns.Prefix, sub)
	return ns
}

// StoredPath maps a namespace-relative path to the path recorded on the
// asset row, relative to the collection root.
func (ns Namespace) StoredPath(rel string) string {
	return path.Join(ns.Prefix, rel)
}

func (ns Namespace) AllowsExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range ns.Exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ObjectName maps a namespace-relative stored path to the full object
// name used against Storage.
func (ns Namespace) ObjectName(rel string) string {
	return path.Join(ns.Dir, rel)
}

// ThumbnailPath derives the parallel thumbnail location for a stored
// path: "2024/pic.jpg" becomes "thumbnails/2024/pic.jpg".
func ThumbnailPath(rel string) string {
	dir, file := path.Split(rel)
	return path.Join("thumbnails", dir, file)
}
