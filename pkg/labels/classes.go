package labels

import (
	"path/filepath"
	"strings"
)

// ClassResolver maps object names onto class ids.
// Names are matched on the file base name without extension, case-insensitively.
// A nil resolver maps everything to DefaultClass.
type ClassResolver struct {
	fallback int
	byName   map[string]int
}

// NewClassResolver creates a resolver with a fallback class and optional per-name ids
func NewClassResolver(fallback int, byName map[string]int) *ClassResolver {
	m := make(map[string]int, len(byName))
	for name, id := range byName {
		m[classKey(name)] = id
	}
	return &ClassResolver{fallback: fallback, byName: m}
}

// Resolve returns the class id for an object name
func (r *ClassResolver) Resolve(name string) int {
	if r == nil {
		return DefaultClass
	}
	if id, ok := r.byName[classKey(name)]; ok {
		return id
	}
	return r.fallback
}

func classKey(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
