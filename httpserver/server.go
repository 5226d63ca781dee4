package httpserver

import (
	"context"
	"fmt"
	"movieapp/errs"
	"movieapp/movie"
	"movieapp/pkg/config"
	"movieapp/pkg/logger"
	"movieapp/pkg/sentry"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Config *config.Config
	Logger *zap.SugaredLogger

	MovieService movie.Service
}

// New builds a server from options. Routes and middlewares are registered
// after every option has been applied.
func New(options ...Options) (*Server, error) {
	s := newServer()

	for _, fn := range options {
		if err := fn(s); err != nil {
			return nil, err
		}
	}

	s.setup()
	return s, nil
}

func Default(cfg *config.Config) *Server {
	s := newServer()
	s.applyConfig(cfg)
	s.setup()
	return s
}

func newServer() *Server {
	return &Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		Config:       config.Empty,
		Logger:       logger.NOOPLogger,
	}
}

func (s *Server) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	s.Config = cfg
	if cfg.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(cfg.AllowOrigins, ",")
	}
}

func (s *Server) setup() {
	s.Router.HideBanner = true
	s.Router.Validator = NewValidator()
	s.Router.HTTPErrorHandler = s.handleError
	s.RegisterGlobalMiddlewares()

	s.RegisterHealthRoutes()
	s.RegisterMovieRoutes(s.Router.Group("/api/movies"))
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	s.Logger.Infow("http server listening", "addr", s.Addr)
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// handleError maps application errors to HTTP status codes and writes the
// error envelope. Server side failures are logged and reported to Sentry.
func (s *Server) handleError(err error, c echo.Context) {
	status, message := statusAndMessage(err)

	if status >= http.StatusInternalServerError {
		requestID := s.requestID(c)
		s.Logger.Errorw(err.Error(), zap.String("request_id", requestID))
		sentry.WithContext(c).WithTags(map[string]string{"request_id": requestID}).Error(err)
	} else {
		s.Logger.Debugw(err.Error(),
			zap.String("request_id", s.requestID(c)),
			zap.Int("status", status),
		)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = writeError(c, status, message, "", err)
	}
	if err != nil {
		s.Logger.Errorw("write error response", zap.Error(err))
	}
}

func statusAndMessage(err error) (int, string) {
	// Check if it's an Echo HTTPError
	if he, ok := err.(*echo.HTTPError); ok {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	// Map application error codes to HTTP status codes
	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTFOUND:
		return http.StatusNotFound, errs.ErrorMessage(err)
	case errs.ECONFLICT:
		return http.StatusConflict, errs.ErrorMessage(err)
	case errs.ECONSTRAINT:
		return http.StatusUnprocessableEntity, errs.ErrorMessage(err)
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	}

	return http.StatusInternalServerError, "Internal server error"
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
