// Package logger provides structured logging for the scheduler and its
// surfaces using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields. Run
// and node ids are first-class field keys so every line produced during a
// graph execution can be correlated with its run.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("runner").WithRun(runID)
//	log.Info("node finished", logger.Fields(logger.FieldNodeID, "scan"))
package logger
