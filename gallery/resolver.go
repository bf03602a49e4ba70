package gallery

// UnknownName is reported when a probe embedding cannot be attributed
// to any gallery identity.
const UnknownName = "Unknown"

// Comparator decides whether two embeddings belong to the same person
// and measures how far apart they are. The match threshold is owned by
// the implementation, not by the resolver.
type Comparator interface {
	IsMatch(known, probe []float32) bool
	Distance(known, probe []float32) float64
}

// Resolve maps a probe embedding to a known identity name, or
// UnknownName if no identity can be attributed.
//
// The probe matches the gallery in two stages: first every identity is
// boolean-tested via cmp.IsMatch, then the globally closest identity by
// cmp.Distance is selected across the WHOLE gallery, ties broken by
// lowest index. The probe resolves to that identity only if its own
// boolean test passed; if the globally closest identity failed the test
// the result is UnknownName even when a farther identity passed it.
// That mirrors the reference system's compare-then-argmin sequence and
// is pinned by a regression test; restricting the argmin to the matched
// subset would change observable behavior.
func (g *Gallery) Resolve(probe []float32, cmp Comparator) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.identities) == 0 {
		return UnknownName
	}

	matches := make([]bool, len(g.identities))
	anyMatch := false
	for i, id := range g.identities {
		matches[i] = cmp.IsMatch(id.Embedding, probe)
		if matches[i] {
			anyMatch = true
		}
	}
	if !anyMatch {
		return UnknownName
	}

	bestIdx := 0
	bestDist := cmp.Distance(g.identities[0].Embedding, probe)
	for i := 1; i < len(g.identities); i++ {
		d := cmp.Distance(g.identities[i].Embedding, probe)
		if d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}

	if matches[bestIdx] {
		return g.identities[bestIdx].Name
	}
	return UnknownName
}
