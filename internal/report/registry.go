package report

import (
	"context"
	"fmt"
)

// Request carries all parameters required to generate one report.
type Request struct {
	InputPath   string
	DatasetPath string
	ReportPath  string
	Options     map[string]string
}

// Generator produces a single questionnaire item (6.4, 6.1, ...). Each
// implementation owns its own data loading and export.
type Generator interface {
	ID() string
	Generate(ctx context.Context, req Request) error
}

// Registry keeps a mapping from questionnaire item ids to generators.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: map[string]Generator{}}
}

// Register adds or replaces a generator implementation.
func (r *Registry) Register(g Generator) {
	if r.generators == nil {
		r.generators = map[string]Generator{}
	}
	r.generators[g.ID()] = g
}

// Resolve returns a generator by item id or an error if it is absent.
func (r *Registry) Resolve(id string) (Generator, error) {
	if g, ok := r.generators[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("report %s is not registered", id)
}
