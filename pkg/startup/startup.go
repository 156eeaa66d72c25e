package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Dependency is a component with a managed lifecycle
type Dependency interface {
	Name() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type status int

const (
	statusPending status = iota
	statusStarted
	statusStopped
	statusFailed
)

// Manager starts dependencies in dependency order with retries and stops
// them in reverse registration order.
type Manager struct {
	order        []string
	dependencies map[string]Dependency
	statuses     map[string]status
	logger       ectologger.Logger
	maxAttempts  int
}

// NewManager creates a startup manager
func NewManager(logger ectologger.Logger, maxAttempts int) *Manager {
	return &Manager{
		dependencies: make(map[string]Dependency),
		statuses:     make(map[string]status),
		logger:       logger,
		maxAttempts:  maxAttempts,
	}
}

// Add registers a dependency. Registration order is the stop order, reversed.
func (m *Manager) Add(dependency Dependency) {
	if _, ok := m.dependencies[dependency.Name()]; !ok {
		m.order = append(m.order, dependency.Name())
	}
	m.dependencies[dependency.Name()] = dependency
}

// Start brings every dependency up, retrying the whole set with fibonacci
// backoff until maxAttempts is exhausted.
func (m *Manager) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		m.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = nil
		for _, name := range m.order {
			if err := m.startDependency(ctx, m.dependencies[name]); err != nil {
				m.logger.WithError(err).Errorf("Startup dependency '%s' attempt %d failed", name, attempt)
				lastErr = err
				break
			}
		}

		if lastErr == nil {
			return nil
		}

		if attempt >= m.maxAttempts {
			return fmt.Errorf("startup failed after %d attempts: %w", attempt, lastErr)
		}

		m.logger.Infof("Retrying in %d seconds (attempt %d/%d)", a, attempt, m.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return lastErr
}

func (m *Manager) startDependency(ctx context.Context, dependency Dependency) error {
	if m.statuses[dependency.Name()] == statusStarted {
		return nil
	}

	for _, name := range dependency.DependsOn() {
		upstream, ok := m.dependencies[name]
		if !ok {
			return fmt.Errorf("dependency '%s' requires unknown dependency '%s'", dependency.Name(), name)
		}
		if m.statuses[name] != statusStarted {
			if err := m.startDependency(ctx, upstream); err != nil {
				return err
			}
		}
	}

	m.logger.WithField("dependency", dependency.Name()).Infof("Starting dependency '%s'", dependency.Name())
	m.statuses[dependency.Name()] = statusPending
	if err := dependency.Start(ctx); err != nil {
		m.statuses[dependency.Name()] = statusFailed
		m.logger.WithError(err).WithField("dependency", dependency.Name()).Errorf("Failed to start dependency '%s'", dependency.Name())
		return err
	}
	m.statuses[dependency.Name()] = statusStarted
	return nil
}

// Stop shuts started dependencies down in reverse registration order.
func (m *Manager) Stop(ctx context.Context) error {
	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		if m.statuses[name] != statusStarted {
			continue
		}

		dependency := m.dependencies[name]
		m.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := dependency.Stop(ctx); err != nil {
			m.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			return err
		}
		m.statuses[name] = statusStopped
	}
	return nil
}
