// Package logger provides the structured logging facility, based on Zap.
//
// Production configuration emits JSON; debug level switches to zap's development
// preset. Console format is intended for the CLI and colors the level names.
//
// # Request Correlation
//
// WithRayID reads the ray id placed in the Fiber locals by the rayid middleware and
// attaches it to the logger, so every line written while serving a request can be
// correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	if err != nil {
//	    return err
//	}
//	log.Info("profile committed", zap.String("identity", rec.Identity))
package logger
