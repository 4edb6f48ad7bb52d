package asset

import (
	"fmt"
	"sort"
)

type Kind string

const (
	KindImage Kind = "image"
	KindSound Kind = "sound"
	// KindJSON holds any structured data, whatever its wire format.
	KindJSON Kind = "json"
)

// Asset is the result of one load operation.
type Asset struct {
	Kind  Kind
	Name  string
	Value any
}

// Bundle addresses loaded assets by kind, then by name.
type Bundle map[Kind]map[string]any

// Fold builds a Bundle from assets in order. A later asset replaces an
// earlier one with the same kind and name.
func Fold(assets []Asset) Bundle {
	b := make(Bundle)
	for _, a := range assets {
		byName, ok := b[a.Kind]
		if !ok {
			byName = make(map[string]any)
			b[a.Kind] = byName
		}
		byName[a.Name] = a.Value
	}
	return b
}

// Get returns the value stored under kind and name.
func (b Bundle) Get(kind Kind, name string) (any, bool) {
	v, ok := b[kind][name]
	return v, ok
}

// Names returns the sorted asset names of every kind in the bundle.
func (b Bundle) Names() map[Kind][]string {
	out := make(map[Kind][]string, len(b))
	for kind, byName := range b {
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)
		out[kind] = names
	}
	return out
}

// Clone copies the kind and name maps. Asset values are shared.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for kind, byName := range b {
		names := make(map[string]any, len(byName))
		for name, v := range byName {
			names[name] = v
		}
		out[kind] = names
	}
	return out
}

// Len returns the total number of assets across all kinds.
func (b Bundle) Len() int {
	n := 0
	for _, byName := range b {
		n += len(byName)
	}
	return n
}

// LoadError reports a single failed load operation.
type LoadError struct {
	Kind Kind
	Name string
	Src  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not load %s: %s (%s)", e.Kind, e.Name, e.Src)
	}
	return fmt.Sprintf("could not load %s: %s (%s): %v", e.Kind, e.Name, e.Src, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
