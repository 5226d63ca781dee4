package sentry

import (
	"fmt"
	"movieapp/pkg/config"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// FlushTime bounds how long shutdown waits for buffered events.
var FlushTime = 2 * time.Second

var enabled bool

// Init configures the global sentry client. Reporting stays off in the
// local environment and when no DSN is configured.
func Init(cfg *config.Config) error {
	enabled = cfg.AppEnv != "local" && cfg.SentryDSN != ""
	if !enabled {
		return nil
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		enabled = false
		return fmt.Errorf("init sentry: %w", err)
	}
	return nil
}

// Flush waits up to FlushTime for queued events.
func Flush() {
	if enabled {
		sentrygo.Flush(FlushTime)
	}
}

// Sentry reports a single error, scoped to a request when one is set.
type Sentry struct {
	context echo.Context
	tags    map[string]string
}

func WithContext(c echo.Context) *Sentry {
	return &Sentry{context: c}
}

func (s *Sentry) WithTags(tags map[string]string) *Sentry {
	s.tags = tags
	return s
}

func (s *Sentry) Error(err error) {
	if !enabled || err == nil {
		return
	}

	hub := s.getHub()
	hub.WithScope(func(scope *sentrygo.Scope) {
		scope.SetLevel(sentrygo.LevelError)
		if len(s.tags) > 0 {
			scope.SetTags(s.tags)
		}
		if s.context != nil && s.context.Request() != nil {
			scope.SetRequest(s.context.Request())
		}
		hub.CaptureException(err)
	})
}

// getHub prefers the per request hub installed by the sentryecho middleware.
func (s *Sentry) getHub() *sentrygo.Hub {
	if s.context != nil {
		if hub := sentryecho.GetHubFromContext(s.context); hub != nil {
			return hub
		}
	}
	return sentrygo.CurrentHub()
}
