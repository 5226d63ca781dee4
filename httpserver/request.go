package httpserver

import (
	"movieapp/errs"
	"movieapp/movie"
	"strconv"
)

type TitleQuery struct {
	Title string `query:"t" validate:"required"`
}

type TitleYearQuery struct {
	Title string `query:"t" validate:"required"`
	Year  string `query:"y" validate:"omitempty,numeric"`
}

type YearRangeQuery struct {
	Min string `query:"mi" validate:"omitempty,numeric"`
	Max string `query:"ma" validate:"omitempty,numeric"`
}

type AddMovieRequest struct {
	Title    *string `json:"title"`
	Year     *int32  `json:"year"`
	Duration *int32  `json:"duration"`
}

func (r AddMovieRequest) ToDetail() movie.Detail {
	return movie.Detail{
		Title:    r.Title,
		Year:     r.Year,
		Duration: r.Duration,
	}
}

type UpdateMovieRequest struct {
	ID       *int64  `json:"id" validate:"required,gt=0"`
	Title    *string `json:"title"`
	Year     *int32  `json:"year"`
	Duration *int32  `json:"duration"`
}

func (r UpdateMovieRequest) ToDetail() movie.Detail {
	return movie.Detail{
		ID:       *r.ID,
		Title:    r.Title,
		Year:     r.Year,
		Duration: r.Duration,
	}
}

// parseYear turns an optional year query value into a nullable year.
func parseYear(name, raw string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "validation error: %s must be a 32-bit integer", name)
	}
	return movie.Int32(int32(v)), nil
}
