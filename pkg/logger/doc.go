// Package logger builds *slog.Logger values for formkit services and clients.
//
// New takes functional options for format, level, output, static attributes
// and context extractors. NewFromConfig reads the same settings from a Config
// loaded from the environment:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	log, err := logger.NewFromConfig(cfg,
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// The attribute helpers (Field, Method, URL, StatusCode, Transport and so on)
// keep key names consistent between the form client and the server handlers.
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
