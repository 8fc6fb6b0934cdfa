package provider

import "sort"

// canonicalOrder fixes the display order of known providers regardless of
// package init order.
var canonicalOrder = map[ID]int{
	OpenAI:     0,
	Anthropic:  1,
	Gemini:     2,
	Perplexity: 3,
}

// Registry is an immutable ordered table of providers. Build one with
// NewRegistry (tests) or take the process-wide one from Default.
type Registry struct {
	order []Adapter
	byID  map[ID]Adapter
}

// NewRegistry builds a registry from the given adapters, ordered by the
// canonical provider order (unknown providers sort last, by id).
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{byID: make(map[ID]Adapter, len(adapters))}
	for _, a := range adapters {
		if _, dup := r.byID[a.ID()]; dup {
			continue
		}
		r.byID[a.ID()] = a
		r.order = append(r.order, a)
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		oi, iok := canonicalOrder[r.order[i].ID()]
		oj, jok := canonicalOrder[r.order[j].ID()]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		default:
			return r.order[i].ID() < r.order[j].ID()
		}
	})
	return r
}

// Providers returns the adapters in display order. The returned slice must
// not be mutated.
func (r *Registry) Providers() []Adapter {
	return r.order
}

// AdapterFor returns the adapter responsible for the given provider.
func (r *Registry) AdapterFor(id ID) (Adapter, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ModelsFor returns the ordered model list of the given provider, or nil if
// the provider is unknown.
func (r *Registry) ModelsFor(id ID) []Model {
	if a, ok := r.byID[id]; ok {
		return a.Models()
	}
	return nil
}

// FirstModel returns the default (first) model of the given provider.
func (r *Registry) FirstModel(id ID) (Model, bool) {
	models := r.ModelsFor(id)
	if len(models) == 0 {
		return Model{}, false
	}
	return models[0], true
}

// HasModel reports whether modelID belongs to the given provider.
func (r *Registry) HasModel(id ID, modelID string) bool {
	for _, m := range r.ModelsFor(id) {
		if m.ID == modelID {
			return true
		}
	}
	return false
}

var registered []Adapter

// Register adds an adapter to the process-wide registry. Called from the
// init functions of the per-provider subpackages; main blank-imports the
// packages it wants available.
func Register(a Adapter) {
	registered = append(registered, a)
}

// Default returns a registry over all registered adapters.
func Default() *Registry {
	return NewRegistry(registered...)
}
