package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/de-tools/reporter/pkg/services/registry"
	"github.com/rs/zerolog"
)

var ErrAppNotFound = errors.New("installed app not found")

// RegisterFunc is an app's reports hook. It registers the app's report
// definitions against the given registry.
type RegisterFunc func(reg *registry.Registry) error

// App is an installed application. Reports is nil when the app ships no reports.
type App struct {
	Name    string
	Reports RegisterFunc
}

// Catalog holds every app known to the binary, keyed by name
type Catalog map[string]App

type state int32

const (
	stateIdle state = iota
	stateLoading
)

// Discoverer walks the installed apps and runs their reports hooks
type Discoverer struct {
	registry *registry.Registry
	catalog  Catalog
	state    atomic.Int32

	mu     sync.Mutex
	loaded map[string]bool
}

func NewDiscoverer(reg *registry.Registry, catalog Catalog) *Discoverer {
	return &Discoverer{
		registry: reg,
		catalog:  catalog,
		loaded:   make(map[string]bool),
	}
}

// Discover runs the reports hook of every installed app, in order.
//
// Apps without a hook are skipped. A hook error is returned unchanged and
// stops discovery. Calls made while a discovery is already in progress,
// including calls from inside a hook, return nil without doing anything.
// Apps whose hook already succeeded are not run again.
func (d *Discoverer) Discover(ctx context.Context, installed []string) error {
	logger := zerolog.Ctx(ctx)

	if !d.state.CompareAndSwap(int32(stateIdle), int32(stateLoading)) {
		logger.Debug().Msg("report discovery already in progress, skipping")
		return nil
	}
	defer d.state.Store(int32(stateIdle))

	for _, name := range installed {
		app, ok := d.catalog[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrAppNotFound, name)
		}
		if app.Reports == nil {
			logger.Debug().Str("app", name).Msg("app has no reports, skipping")
			continue
		}
		if d.isLoaded(name) {
			continue
		}

		if err := app.Reports(d.registry); err != nil {
			logger.Error().Err(err).Str("app", name).Msg("failed to register app reports")
			return err
		}
		d.markLoaded(name)
		logger.Debug().Str("app", name).Msg("registered app reports")
	}

	return nil
}

// Loading reports whether a discovery run is in progress
func (d *Discoverer) Loading() bool {
	return state(d.state.Load()) == stateLoading
}

func (d *Discoverer) isLoaded(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded[name]
}

func (d *Discoverer) markLoaded(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded[name] = true
}
