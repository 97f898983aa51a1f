package env

import (
	"context"
	"fmt"

	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/provider"
)

// Selector is a provider.Selector that picks the Server or Browser provider
// according to its Detector. It never falls back to the other one.
type Selector[T provider.Provider] struct {
	Detector Detector
}

// NewSelector returns a Selector using d, or Default when d is nil.
func NewSelector[T provider.Provider](d Detector) *Selector[T] {
	if d == nil {
		d = Default
	}
	return &Selector[T]{Detector: d}
}

// Select returns providers[Server] or providers[Browser].
func (s *Selector[T]) Select(_ context.Context, providers map[string]T) (T, error) {
	name := s.Detector.Name()
	if p, ok := providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, errors.ProviderUnavailable(fmt.Errorf("no %s transport registered", name)).
		WithDetail("transport", name)
}
