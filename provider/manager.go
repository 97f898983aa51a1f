package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/isoclient/logger"
)

// Manager holds named providers of one kind and asks its Selector which of
// them serves each call.
type Manager[T Provider] struct {
	mu        sync.RWMutex
	selector  Selector[T]
	providers map[string]T
	closers   map[string]Closeable
	log       *logger.Logger
}

// NewManager returns an empty Manager. A nil log uses the "provider"
// component logger.
func NewManager[T Provider](selector Selector[T], log *logger.Logger) *Manager[T] {
	if log == nil {
		log = logger.Get("provider")
	}
	return &Manager[T]{
		selector:  selector,
		providers: make(map[string]T),
		closers:   make(map[string]Closeable),
		log:       log,
	}
}

// Add stores instance under name, replacing any earlier one. Close releases
// closer; when closer is nil the instance itself is used if it is
// Closeable. Pass the undecorated provider as closer when middleware hides
// its Close method.
func (m *Manager[T]) Add(name string, instance T, closer Closeable) {
	if closer == nil {
		closer, _ = any(instance).(Closeable)
	}
	m.mu.Lock()
	m.providers[name] = instance
	if closer != nil {
		m.closers[name] = closer
	} else {
		delete(m.closers, name)
	}
	m.mu.Unlock()
	m.log.Debug("Provider added", logger.Fields("provider", name, "closeable", closer != nil))
}

// Get returns the provider chosen by the selector. The selector sees a
// copy of the provider set.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()
	return m.selector.Select(ctx, providers)
}

// Lookup returns the provider stored under name.
func (m *Manager[T]) Lookup(name string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[name]
	return p, ok
}

// Names returns the stored provider names in sorted order.
func (m *Manager[T]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.providers))
}

// Close runs every closer in name order and joins their errors.
func (m *Manager[T]) Close(ctx context.Context) error {
	m.mu.RLock()
	closers := maps.Clone(m.closers)
	m.mu.RUnlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(closers)) {
		if err := closers[name].Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return stderrors.Join(errs...)
}
