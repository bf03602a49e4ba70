package gallery

import (
	"math"
	"testing"
)

// thresholdComparator matches when the Euclidean distance is at or
// below the tolerance, mirroring the production comparator.
type thresholdComparator struct {
	tolerance float64
}

func (c thresholdComparator) Distance(known, probe []float32) float64 {
	var sum float64
	for i := range known {
		d := float64(known[i] - probe[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (c thresholdComparator) IsMatch(known, probe []float32) bool {
	return c.Distance(known, probe) <= c.tolerance
}

func galleryWith(identities ...Identity) *Gallery {
	g := New()
	for _, id := range identities {
		g.Append(id.Name, id.Embedding)
	}
	return g
}

func TestResolveEmptyGallery(t *testing.T) {
	g := New()
	got := g.Resolve([]float32{1, 0}, thresholdComparator{tolerance: 0.6})
	if got != UnknownName {
		t.Errorf("expected %q for empty gallery, got %q", UnknownName, got)
	}
}

func TestResolveNoMatches(t *testing.T) {
	g := galleryWith(
		Identity{Name: "alice", Embedding: []float32{10, 0}},
		Identity{Name: "bob", Embedding: []float32{0, 10}},
	)
	got := g.Resolve([]float32{0, 0}, thresholdComparator{tolerance: 0.6})
	if got != UnknownName {
		t.Errorf("expected %q when nothing matches, got %q", UnknownName, got)
	}
}

func TestResolveSingleMatch(t *testing.T) {
	g := galleryWith(Identity{Name: "alice", Embedding: []float32{0.5, 0}})
	got := g.Resolve([]float32{0.4, 0}, thresholdComparator{tolerance: 0.6})
	if got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
}

func TestResolvePicksClosestMatch(t *testing.T) {
	g := galleryWith(
		Identity{Name: "far", Embedding: []float32{0.5, 0}},
		Identity{Name: "near", Embedding: []float32{0.1, 0}},
	)
	got := g.Resolve([]float32{0, 0}, thresholdComparator{tolerance: 0.6})
	if got != "near" {
		t.Errorf("expected near, got %q", got)
	}
}

// A closer identity that fails the match test hides a farther identity
// that passes it. The argmin runs over the whole gallery, not just the
// matched subset, so the resolver reports Unknown here. This pins the
// reference behavior; do not "fix" it without revisiting the contract.
func TestResolveClosestNonMatchHidesFartherMatch(t *testing.T) {
	// probe at origin: "near" is at distance 1.0 (no match with
	// tolerance 0.6), "far" at distance... must be a match but farther.
	// Use a comparator with per-pair behavior instead.
	cmp := pairComparator{
		distances: map[string]float64{"near": 1.0, "far": 2.0},
		matches:   map[string]bool{"near": false, "far": true},
	}
	g := galleryWith(
		Identity{Name: "near", Embedding: []float32{1}},
		Identity{Name: "far", Embedding: []float32{2}},
	)
	got := g.Resolve([]float32{0}, cmp)
	if got != UnknownName {
		t.Errorf("expected %q (closest identity fails match test), got %q", UnknownName, got)
	}
}

// pairComparator keys distance and match outcomes off the first
// element of the known embedding: 1 -> "near", 2 -> "far".
type pairComparator struct {
	distances map[string]float64
	matches   map[string]bool
}

func (c pairComparator) key(known []float32) string {
	if known[0] == 1 {
		return "near"
	}
	return "far"
}

func (c pairComparator) Distance(known, probe []float32) float64 {
	return c.distances[c.key(known)]
}

func (c pairComparator) IsMatch(known, probe []float32) bool {
	return c.matches[c.key(known)]
}

func TestResolveTieBreaksByInsertionOrder(t *testing.T) {
	g := galleryWith(
		Identity{Name: "first", Embedding: []float32{0.2, 0}},
		Identity{Name: "second", Embedding: []float32{0.2, 0}},
	)
	got := g.Resolve([]float32{0, 0}, thresholdComparator{tolerance: 0.6})
	if got != "first" {
		t.Errorf("expected first (lowest index wins ties), got %q", got)
	}
}

func TestResolveDuplicateNames(t *testing.T) {
	g := galleryWith(
		Identity{Name: "alice", Embedding: []float32{0.3, 0}},
		Identity{Name: "alice", Embedding: []float32{0.1, 0}},
	)
	got := g.Resolve([]float32{0, 0}, thresholdComparator{tolerance: 0.6})
	if got != "alice" {
		t.Errorf("expected alice from duplicate entries, got %q", got)
	}
}
