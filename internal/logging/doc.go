// Package logging provides structured logging for epson-cfg.
//
// The package wraps a global zap logger. Logging is silent unless a level is
// given with --log-level or the EPSONCFG_LOG_LEVEL environment variable, so
// the command output stays clean by default. Log lines go to stderr.
//
// Device traffic is logged at debug level:
//
//	logging.LogDeviceRequest("PUT", url, attempt, len(body))
//	logging.LogDeviceResponse("PUT", url, resp.StatusCode, body)
//	logging.LogRetry("PUT", url, attempt, elapsed, err)
//
// Apply progress is logged at info level with LogApplyStep.
package logging
