// Package loader provides the plugin-like feature loading system.
//
// Each feature (expiry, reconcile, alert) implements the Feature interface and
// registers its ops routes when loaded.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
