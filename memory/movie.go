// Package memory provides an in-process movie store with the same
// contract as the PostgreSQL one.
package memory

import (
	"context"
	"iter"
	"movieapp/movie"
	"slices"
	"sync"
)

// MovieRepository implements [movie.Repository] over a map guarded by a
// RWMutex. Ids start at 1 and are never reused.
type MovieRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]movie.Movie
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{
		nextID: 1,
		items:  make(map[int64]movie.Movie),
	}
}

// Insert implements [movie.Repository].
func (r *MovieRepository) Insert(_ context.Context, m movie.Movie) (movie.Movie, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m = clone(m)
	m.ID = r.nextID
	r.nextID++
	r.items[m.ID] = m
	return clone(m), nil
}

// FindByID implements [movie.Repository].
func (r *MovieRepository) FindByID(_ context.Context, id int64) (movie.Movie, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return movie.Movie{}, false, nil
	}
	return clone(m), true, nil
}

// FindAll implements [movie.Repository].
func (r *MovieRepository) FindAll(_ context.Context) ([]movie.Movie, error) {
	return r.filter(func(movie.Movie) bool { return true }), nil
}

// FindByTitle implements [movie.Repository]. The sequence iterates over a
// snapshot taken when iteration starts.
func (r *MovieRepository) FindByTitle(ctx context.Context, title string) iter.Seq2[movie.Movie, error] {
	return func(yield func(movie.Movie, error) bool) {
		matches := r.filter(func(m movie.Movie) bool { return movie.TitleOf(m) == title })
		for _, m := range matches {
			if err := ctx.Err(); err != nil {
				yield(movie.Movie{}, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// FindByTitleAndYear implements [movie.Repository].
func (r *MovieRepository) FindByTitleAndYear(_ context.Context, title string, year *int32) ([]movie.Movie, error) {
	return r.filter(func(m movie.Movie) bool {
		if m.Title == nil || *m.Title != title {
			return false
		}
		return year == nil || (m.Year != nil && *m.Year == *year)
	}), nil
}

// FindByYearRange implements [movie.Repository]. An unbounded range
// returns no movies.
func (r *MovieRepository) FindByYearRange(_ context.Context, minYear, maxYear *int32) ([]movie.Movie, error) {
	if minYear == nil && maxYear == nil {
		return []movie.Movie{}, nil
	}

	return r.filter(func(m movie.Movie) bool {
		if m.Year == nil {
			return false
		}
		if minYear != nil && *m.Year < *minYear {
			return false
		}
		if maxYear != nil && *m.Year > *maxYear {
			return false
		}
		return true
	}), nil
}

// Update implements [movie.Repository].
func (r *MovieRepository) Update(_ context.Context, m movie.Movie) (movie.Movie, bool, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		return movie.Movie{}, false, nil
	}
	r.items[m.ID] = clone(m)
	return clone(m), true, nil
}

// Delete implements [movie.Repository].
func (r *MovieRepository) Delete(_ context.Context, id int64) (movie.Movie, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return movie.Movie{}, false, nil
	}
	delete(r.items, id)
	return clone(m), true, nil
}

func (r *MovieRepository) filter(keep func(movie.Movie) bool) []movie.Movie {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movies := make([]movie.Movie, 0, len(r.items))
	for _, m := range r.items {
		if keep(m) {
			movies = append(movies, clone(m))
		}
	}
	slices.SortFunc(movies, func(a, b movie.Movie) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return movies
}

// clone detaches the nullable fields so callers cannot mutate stored rows.
func clone(m movie.Movie) movie.Movie {
	if m.Title != nil {
		m.Title = movie.String(*m.Title)
	}
	if m.Year != nil {
		m.Year = movie.Int32(*m.Year)
	}
	if m.Duration != nil {
		m.Duration = movie.Int32(*m.Duration)
	}
	return m
}
