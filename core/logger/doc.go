// Package logger builds the zap loggers used across payment-sync.
//
// New picks the production or development zap preset from the configured
// level and encodes as json or console. Two helpers attach correlation fields:
//
//   - WithRayID reads the ray ID stored by the rayid middleware, so every line
//     of one HTTP request can be grouped.
//   - WithRun tags the lines of one sync run with its run ID, which is also the
//     key of the sync_runs row and of the archived report.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	if err != nil {
//	    return err
//	}
//	runLog := logger.WithRun(log, res.ID)
//	runLog.Info("Entity sync started", zap.String("entity", "customers"))
package logger
