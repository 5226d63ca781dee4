package movie

import "movieapp/errs"

var (
	ErrTitleRequired = errs.Errorf(errs.ECONSTRAINT, "movie: title is required")
	ErrYearRequired  = errs.Errorf(errs.ECONSTRAINT, "movie: year is required")
)

// Movie is the canonical stored record. Title, Year and Duration are
// nullable in the payloads, so they are pointers; a persisted movie always
// has a title and a year. An empty title is a title.
type Movie struct {
	ID       int64
	Title    *string
	Year     *int32
	Duration *int32
}

// Validate mirrors the NOT NULL constraints of the movies table so that
// writes fail before reaching storage.
func (m Movie) Validate() error {
	if m.Title == nil {
		return ErrTitleRequired
	}

	if m.Year == nil {
		return ErrYearRequired
	}

	return nil
}

// IsConstraintViolation reports whether err is a rejected write caused by
// missing required data.
func IsConstraintViolation(err error) bool {
	return errs.ErrorCode(err) == errs.ECONSTRAINT
}

// TitleOf returns the title of m, or "" when it is null.
func TitleOf(m Movie) string {
	if m.Title == nil {
		return ""
	}
	return *m.Title
}

func String(v string) *string {
	return &v
}

func Int32(v int32) *int32 {
	return &v
}
