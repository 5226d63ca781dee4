package postgres

import (
	"context"
	"errors"
	"iter"
	"movieapp/errs"
	"movieapp/movie"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pqNotNullViolation = "23502"

// MovieModel represents the database model for movies.
// The table and its constraints are created by the SQL migrations.
type MovieModel struct {
	ID       int64   `gorm:"primaryKey"`
	Title    *string `gorm:"not null"`
	Year     *int32  `gorm:"not null"`
	Duration *int32
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// MovieRepository implements [movie.Repository] on PostgreSQL.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Insert implements [movie.Repository]. The id of m is ignored.
func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, err
	}

	model := toModelMovie(m)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return movie.Movie{}, mapWriteError(err)
	}
	return toDomainMovie(model), nil
}

// FindByID implements [movie.Repository].
func (r *MovieRepository) FindByID(ctx context.Context, id int64) (movie.Movie, bool, error) {
	var model MovieModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, false, nil
		}
		return movie.Movie{}, false, err
	}

	return toDomainMovie(model), true, nil
}

// FindAll implements [movie.Repository].
func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

// FindByTitle implements [movie.Repository]. Rows are streamed from a
// server cursor and the cursor is closed when the consumer stops.
func (r *MovieRepository) FindByTitle(ctx context.Context, title string) iter.Seq2[movie.Movie, error] {
	return func(yield func(movie.Movie, error) bool) {
		tx := r.db.WithContext(ctx)
		rows, err := tx.Model(&MovieModel{}).Where("title = ?", title).Order("id").Rows()
		if err != nil {
			yield(movie.Movie{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var model MovieModel
			if err := tx.ScanRows(rows, &model); err != nil {
				yield(movie.Movie{}, err)
				return
			}
			if !yield(toDomainMovie(model), nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(movie.Movie{}, err)
		}
	}
}

// FindByTitleAndYear implements [movie.Repository]. A nil year matches on
// title only.
func (r *MovieRepository) FindByTitleAndYear(ctx context.Context, title string, year *int32) ([]movie.Movie, error) {
	query := r.db.WithContext(ctx).Where("title = ?", title)
	if year != nil {
		query = query.Where("year = ?", *year)
	}

	var models []MovieModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

// FindByYearRange implements [movie.Repository]. Both bounds are
// inclusive; when both are nil nothing is queried and the result is empty.
func (r *MovieRepository) FindByYearRange(ctx context.Context, minYear, maxYear *int32) ([]movie.Movie, error) {
	if minYear == nil && maxYear == nil {
		return []movie.Movie{}, nil
	}

	query := r.db.WithContext(ctx)
	if minYear != nil {
		query = query.Where("year >= ?", *minYear)
	}
	if maxYear != nil {
		query = query.Where("year <= ?", *maxYear)
	}

	var models []MovieModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

// Update implements [movie.Repository]. Title, year and duration are
// all replaced, a nil duration clears the column.
func (r *MovieRepository) Update(ctx context.Context, m movie.Movie) (movie.Movie, bool, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, false, err
	}

	var model MovieModel
	result := r.db.WithContext(ctx).
		Model(&model).
		Clauses(clause.Returning{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"title":    m.Title,
			"year":     m.Year,
			"duration": m.Duration,
		})
	if result.Error != nil {
		return movie.Movie{}, false, mapWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return movie.Movie{}, false, nil
	}

	return toDomainMovie(model), true, nil
}

// Delete implements [movie.Repository].
func (r *MovieRepository) Delete(ctx context.Context, id int64) (movie.Movie, bool, error) {
	var model MovieModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&model)
	if result.Error != nil {
		return movie.Movie{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return movie.Movie{}, false, nil
	}

	return toDomainMovie(model), true, nil
}

func toDomainMovie(model MovieModel) movie.Movie {
	return movie.Movie{
		ID:       model.ID,
		Title:    model.Title,
		Year:     model.Year,
		Duration: model.Duration,
	}
}

func toDomainMovies(models []MovieModel) []movie.Movie {
	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = toDomainMovie(model)
	}
	return movies
}

func toModelMovie(m movie.Movie) MovieModel {
	return MovieModel{
		ID:       m.ID,
		Title:    m.Title,
		Year:     m.Year,
		Duration: m.Duration,
	}
}

// mapWriteError turns NOT NULL failures on the movies table into
// constraint violation errors.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	if string(pqErr.Code) != pqNotNullViolation {
		return err
	}

	switch pqErr.Column {
	case "title":
		return movie.ErrTitleRequired
	case "year":
		return movie.ErrYearRequired
	}
	return errs.Errorf(errs.ECONSTRAINT, "movie: %s is required", pqErr.Column)
}
