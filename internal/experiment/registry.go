package experiment

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/rxnsim/internal/dynamo"
	"github.com/san-kum/rxnsim/internal/integrators"
	"github.com/san-kum/rxnsim/internal/metrics"
	"github.com/san-kum/rxnsim/internal/models"
	"github.com/san-kum/rxnsim/internal/network"
)

// Registry resolves model names to sources.
type Registry struct {
	models map[string]func() string
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() string),
	}

	for _, name := range models.Names() {
		p, _ := models.Get(name)
		src := p.Source
		r.models[name] = func() string { return src }
	}

	return r
}

// RegisterModel adds a named model source, replacing any existing entry.
func (r *Registry) RegisterModel(name, src string) {
	r.models[name] = func() string { return src }
}

// GetModel parses a registered model by name. A name that is not registered
// is tried as a path to a model file.
func (r *Registry) GetModel(name string) (*network.Model, error) {
	if fn, ok := r.models[name]; ok {
		return network.Parse(fn())
	}
	if _, err := os.Stat(name); err == nil {
		return network.ParseFile(name)
	}
	return nil, fmt.Errorf("unknown model: %s", name)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	return integ, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) DefaultMetrics(m *network.Model) []dynamo.Metric {
	return metrics.Defaults(m)
}
