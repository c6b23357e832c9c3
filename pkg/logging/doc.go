// Package logging configures the structured (log/slog) loggers used by the
// adapter, the fixture loader and the CLI.
//
// Components accept a *slog.Logger and fall back to Nop when none is given:
//
//	a := adapter.New(client, &adapter.Options{
//	    Logger: logging.New(logging.Config{Level: logging.LevelDebug}),
//	})
//
// The CLI reads MOCKADAPTER_LOG_LEVEL and MOCKADAPTER_LOG_FORMAT through
// FromEnv.
package logging
