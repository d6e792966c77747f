// Package logger builds the zap logger shared by the server and the CLI.
//
// Level "debug" selects zap's development config, anything else the production
// config; Format picks the json or console encoder. WithRayID tags a logger with
// the ray id that the rayid middleware stored on the fiber context, so every line
// of one reconcile request can be found together.
//
//	log, err := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Warn("Reconcile failed", zap.Error(err))
package logger
