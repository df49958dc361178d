package layers

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownLayer is returned when a layer is not part of the declared order.
	ErrUnknownLayer = errors.New("invalid layer")
	// ErrLayerViolation is returned when a layer depends on one declared after it.
	ErrLayerViolation = errors.New("layer dependency violation")
)

// Resolver answers which layers a given layer may not depend on.
type Resolver struct {
	order       []string
	unavailable map[string][]string
}

// NewResolver precomputes, for every layer, the layers declared after it.
func NewResolver(allLayers []string) *Resolver {
	r := &Resolver{
		order:       slices.Clone(allLayers),
		unavailable: make(map[string][]string, len(allLayers)),
	}
	for i, layer := range r.order {
		r.unavailable[layer] = r.order[i+1:]
	}
	return r
}

// GetLayersUnavailable returns a lookup of the layers unavailable to a layer.
func GetLayersUnavailable(allLayers []string) func(layer string) ([]string, error) {
	return NewResolver(allLayers).Unavailable
}

// Unavailable returns a copy of the layers declared after layer. The last
// layer has none.
func (r *Resolver) Unavailable(layer string) ([]string, error) {
	suffix, ok := r.unavailable[layer]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
	out := make([]string, len(suffix))
	copy(out, suffix)
	return out, nil
}

// CheckDependency reports whether layer may depend on dependency.
func (r *Resolver) CheckDependency(layer, dependency string) error {
	unavailable, err := r.Unavailable(layer)
	if err != nil {
		return err
	}
	if _, ok := r.unavailable[dependency]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, dependency)
	}
	if slices.Contains(unavailable, dependency) {
		return fmt.Errorf("%w: %q cannot depend on %q", ErrLayerViolation, layer, dependency)
	}
	return nil
}

// Layers returns the declared order.
func (r *Resolver) Layers() []string {
	return slices.Clone(r.order)
}
