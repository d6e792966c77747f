// Package loader provides the plugin-like feature loading system.
//
// Each feature (places, integrity) implements Feature and mounts its routes when
// the Manager loads it. Disabled features are skipped, which lets the server run
// without the parts whose backing services are unavailable.
//
//	mgr := loader.NewManager()
//	mgr.Register(places.NewFeature(service, logg))
//	loaded, err := mgr.LoadAll(app)
package loader
