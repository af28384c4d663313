// Package loader provides the feature loading system for the users API.
//
// Each feature implements the Feature interface and registers its own routes. The
// Manager loads enabled features in registration order and logs which ones were
// skipped.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
