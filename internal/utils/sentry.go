package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// InitSentry initializes Sentry for error tracking. It is a no-op without a DSN.
func InitSentry(dsn, environment string) bool {
	if dsn == "" {
		logrus.Info("SENTRY_DSN not set, error tracking disabled")
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %v", err)
		return false
	}

	logrus.Info("Sentry initialized")
	return true
}

// CaptureError reports err to Sentry with the given tags.
// Without an initialized client this does nothing.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
