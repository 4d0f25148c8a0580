// Package logx builds the zap logger shared by the whole application.
package logx

import (
	"go.uber.org/zap"
)

// New returns a logger configured for the given environment. Anything
// other than "production" gets the human-readable development encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Must is New for main(): it panics instead of returning an error.
func Must(env string) *zap.Logger {
	log, err := New(env)
	if err != nil {
		panic(err)
	}
	return log
}
