package httpserver

import (
	"movieapp/errs"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.Use(s.requireMovieService)

	g.GET("", s.handleListMovies)
	g.GET("/byTitle", s.handleMoviesByTitle)
	g.GET("/byTitleYear", s.handleMoviesByTitleAndYear)
	g.GET("/byYearRange", s.handleMoviesByYearRange)
	g.GET("/:id", s.handleGetMovie)
	g.POST("", s.handleAddMovie)
	g.PUT("", s.handleUpdateMovie)
	g.DELETE("/:id", s.handleDeleteMovie)
}

func (s *Server) requireMovieService(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.MovieService == nil {
			return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
		}
		return next(c)
	}
}

func (s *Server) handleListMovies(c echo.Context) error {
	movies, err := s.MovieService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

func (s *Server) handleGetMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	d, found, err := s.MovieService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return movieNotFound(id)
	}

	return writeSuccess(c, http.StatusOK, d)
}

func (s *Server) handleMoviesByTitle(c echo.Context) error {
	var req TitleQuery
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	movies, err := s.MovieService.GetByTitle(c.Request().Context(), req.Title)
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

func (s *Server) handleMoviesByTitleAndYear(c echo.Context) error {
	var req TitleYearQuery
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	year, err := parseYear("y", req.Year)
	if err != nil {
		return err
	}

	movies, err := s.MovieService.GetByTitleAndYear(c.Request().Context(), req.Title, year)
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

func (s *Server) handleMoviesByYearRange(c echo.Context) error {
	var req YearRangeQuery
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	minYear, err := parseYear("mi", req.Min)
	if err != nil {
		return err
	}
	maxYear, err := parseYear("ma", req.Max)
	if err != nil {
		return err
	}

	movies, err := s.MovieService.GetByYearRange(c.Request().Context(), minYear, maxYear)
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

func (s *Server) handleAddMovie(c echo.Context) error {
	var req AddMovieRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	created, err := s.MovieService.Add(c.Request().Context(), req.ToDetail())
	if err != nil {
		return err
	}

	s.Logger.Infow("movie created", "id", created.ID, "request_id", s.requestID(c))
	return writeSuccess(c, http.StatusCreated, created)
}

func (s *Server) handleUpdateMovie(c echo.Context) error {
	var req UpdateMovieRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	updated, found, err := s.MovieService.Update(c.Request().Context(), req.ToDetail())
	if err != nil {
		return err
	}
	if !found {
		return movieNotFound(*req.ID)
	}

	return writeSuccess(c, http.StatusOK, updated)
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	removed, found, err := s.MovieService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return movieNotFound(id)
	}

	s.Logger.Infow("movie deleted", "id", id, "request_id", s.requestID(c))
	return writeSuccess(c, http.StatusOK, removed)
}

// bindRequest binds path, query and body values into req and validates it.
// Binding failures are reported as invalid input.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request: %s", bindErrorMessage(err))
	}
	return c.Validate(req)
}

func bindErrorMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return "malformed input"
}

func pathID(c echo.Context) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return 0, errs.Errorf(errs.EINVALID, "validation error: id must be an integer")
	}
	return id, nil
}

func movieNotFound(id int64) error {
	return errs.Errorf(errs.ENOTFOUND, "movie %d not found", id)
}
