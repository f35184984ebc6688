package utils

import "go.uber.org/zap"

// NewLogger builds the service logger. Debug mode gives the readable
// development encoder at debug level; otherwise JSON output at info
// level, which is what the extraction pipeline logs in production.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
