package gallery

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/facette/natsort"
)

// ErrNoFaceDetected is returned by Register when the supplied image
// yields zero detectable faces.
var ErrNoFaceDetected = errors.New("no face detected in image")

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// Identity is a single known face: a display name and the embedding
// extracted from its reference image. Names are not unique; duplicate
// registrations append independent entries.
type Identity struct {
	Name      string
	Embedding []float32
}

// ImageEmbedder extracts face embeddings from an image file on disk.
// Each element of the returned slice is one detected face's embedding.
type ImageEmbedder interface {
	EmbedImageFile(path string) ([][]float32, error)
}

// Gallery is the ordered in-memory set of known identities. Insertion
// order matters: the resolver breaks distance ties by lowest index.
// Reads may run concurrently; appends are exclusive.
type Gallery struct {
	mu         sync.RWMutex
	identities []Identity
}

func New() *Gallery {
	return &Gallery{}
}

// Bootstrap scans a directory of reference images and builds a gallery
// from them, one identity per file, named after the file's base name.
// Files that fail to decode or contain no detectable face are skipped
// with a warning. Filenames are natural-sorted so the gallery's
// insertion order is stable across restarts.
func Bootstrap(dir string, embedder ImageEmbedder) (*Gallery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsRasterImage(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	natsort.Sort(names)

	g := New()
	for _, filename := range names {
		path := filepath.Join(dir, filename)
		embeddings, err := embedder.EmbedImageFile(path)
		if err != nil {
			log.Printf("gallery: Warning - skipping %s: %v", filename, err)
			continue
		}
		if len(embeddings) == 0 {
			log.Printf("gallery: Warning - no face found in %s, skipping", filename)
			continue
		}
		name := strings.TrimSuffix(filename, filepath.Ext(filename))
		g.identities = append(g.identities, Identity{Name: name, Embedding: embeddings[0]})
	}

	log.Printf("gallery: loaded %d identities from %s", len(g.identities), dir)
	return g, nil
}

// Append adds a new identity at the end of the gallery. No uniqueness
// check is performed; registering the same name twice yields two
// independently matchable entries.
func (g *Gallery) Append(name string, embedding []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.identities = append(g.identities, Identity{Name: name, Embedding: embedding})
}

// Register adds an identity from the embeddings extracted out of a
// registration image. The first detected face wins when the image
// contains several. Returns ErrNoFaceDetected, without mutating the
// gallery, when no face was found.
func (g *Gallery) Register(name string, embeddings [][]float32) error {
	if len(embeddings) == 0 {
		return ErrNoFaceDetected
	}
	g.Append(name, embeddings[0])
	return nil
}

// Size returns the number of identities currently in the gallery.
func (g *Gallery) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.identities)
}

// Names returns the identity names in insertion order.
func (g *Gallery) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, len(g.identities))
	for i, id := range g.identities {
		names[i] = id.Name
	}
	return names
}
