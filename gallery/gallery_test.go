package gallery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// mapEmbedder serves canned embeddings keyed by file base name.
type mapEmbedder struct {
	embeddings map[string][][]float32
	errs       map[string]error
}

func (m mapEmbedder) EmbedImageFile(path string) ([][]float32, error) {
	name := filepath.Base(path)
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	return m.embeddings[name], nil
}

func writeStubImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0644); err != nil {
			t.Fatalf("failed to write stub image %s: %v", name, err)
		}
	}
}

func TestBootstrapLoadsIdentitiesInNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	writeStubImages(t, dir, "student10.jpg", "student2.jpg", "student1.jpg")

	embedder := mapEmbedder{embeddings: map[string][][]float32{
		"student1.jpg":  {{1}},
		"student2.jpg":  {{2}},
		"student10.jpg": {{10}},
	}}

	g, err := Bootstrap(dir, embedder)
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	want := []string{"student1", "student2", "student10"}
	got := g.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d identities, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("identity %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBootstrapSkipsFacelessAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeStubImages(t, dir, "alice.jpg", "empty.jpg", "broken.jpg", "notes.txt")

	embedder := mapEmbedder{
		embeddings: map[string][][]float32{
			"alice.jpg": {{1, 2}},
			"empty.jpg": {},
		},
		errs: map[string]error{
			"broken.jpg": errors.New("decode failed"),
		},
	}

	g, err := Bootstrap(dir, embedder)
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if g.Size() != 1 {
		t.Fatalf("expected 1 identity, got %d", g.Size())
	}
	if g.Names()[0] != "alice" {
		t.Errorf("expected alice, got %q", g.Names()[0])
	}
}

func TestBootstrapMissingDirectory(t *testing.T) {
	_, err := Bootstrap(filepath.Join(t.TempDir(), "nope"), mapEmbedder{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRegisterNoFaceLeavesGalleryUnchanged(t *testing.T) {
	g := New()
	g.Append("alice", []float32{1})

	err := g.Register("bob", nil)
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
	if g.Size() != 1 {
		t.Errorf("gallery size changed on failed registration: %d", g.Size())
	}
}

func TestRegisterUsesFirstFace(t *testing.T) {
	g := New()
	if err := g.Register("alice", [][]float32{{1, 1}, {9, 9}}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if g.Size() != 1 {
		t.Fatalf("expected 1 identity, got %d", g.Size())
	}
}

func TestRegisterDuplicateNamesAppendsBoth(t *testing.T) {
	g := New()
	if err := g.Register("alice", [][]float32{{1}}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := g.Register("alice", [][]float32{{2}}); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if g.Size() != 2 {
		t.Errorf("expected 2 entries for duplicate name, got %d", g.Size())
	}
}
