package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature is a self-contained module exposing routes on the ops server.
type Feature interface {
	// Name returns the unique feature name.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Load registers the feature's routes.
	Load(app fiber.Router) error
}

// Manager holds the registry of features.
type Manager struct {
	features []Feature
	logger   *zap.Logger
}

// NewManager creates an empty feature manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a feature to the registry.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll loads every enabled feature in registration order.
func (m *Manager) LoadAll(app fiber.Router) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			m.logger.Info("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
		m.logger.Info("Feature loaded", zap.String("feature", f.Name()))
	}
	return nil
}

// Names returns the names of the registered features.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.features))
	for _, f := range m.features {
		names = append(names, f.Name())
	}
	return names
}
