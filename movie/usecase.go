package movie

import (
	"context"
	"iter"
)

type Service interface {
	GetAll(ctx context.Context) ([]Summary, error)
	GetByID(ctx context.Context, id int64) (Detail, bool, error)
	GetByTitle(ctx context.Context, title string) ([]Summary, error)
	GetByTitleAndYear(ctx context.Context, title string, year *int32) ([]Summary, error)
	GetByYearRange(ctx context.Context, minYear, maxYear *int32) ([]Summary, error)
	Add(ctx context.Context, d Detail) (Detail, error)
	Update(ctx context.Context, d Detail) (Detail, bool, error)
	Delete(ctx context.Context, id int64) (Detail, bool, error)
}

// Repository is the movie store. A false found value means the movie does
// not exist and is never reported as an error.
type Repository interface {
	Insert(ctx context.Context, m Movie) (Movie, error)
	FindByID(ctx context.Context, id int64) (Movie, bool, error)
	FindAll(ctx context.Context) ([]Movie, error)
	FindByTitle(ctx context.Context, title string) iter.Seq2[Movie, error]
	FindByTitleAndYear(ctx context.Context, title string, year *int32) ([]Movie, error)
	FindByYearRange(ctx context.Context, minYear, maxYear *int32) ([]Movie, error)
	Update(ctx context.Context, m Movie) (Movie, bool, error)
	Delete(ctx context.Context, id int64) (Movie, bool, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) GetAll(ctx context.Context) ([]Summary, error) {
	movies, err := uc.r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToSummaries(movies), nil
}

func (uc *Usecase) GetByID(ctx context.Context, id int64) (Detail, bool, error) {
	m, found, err := uc.r.FindByID(ctx, id)
	if err != nil || !found {
		return Detail{}, false, err
	}
	return ToDetail(m), true, nil
}

func (uc *Usecase) GetByTitle(ctx context.Context, title string) ([]Summary, error) {
	summaries := []Summary{}
	for m, err := range uc.r.FindByTitle(ctx, title) {
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ToSummary(m))
	}
	return summaries, nil
}

func (uc *Usecase) GetByTitleAndYear(ctx context.Context, title string, year *int32) ([]Summary, error) {
	movies, err := uc.r.FindByTitleAndYear(ctx, title, year)
	if err != nil {
		return nil, err
	}
	return ToSummaries(movies), nil
}

func (uc *Usecase) GetByYearRange(ctx context.Context, minYear, maxYear *int32) ([]Summary, error) {
	movies, err := uc.r.FindByYearRange(ctx, minYear, maxYear)
	if err != nil {
		return nil, err
	}
	return ToSummaries(movies), nil
}

func (uc *Usecase) Add(ctx context.Context, d Detail) (Detail, error) {
	created, err := uc.r.Insert(ctx, d.ToMovie())
	if err != nil {
		return Detail{}, err
	}
	return ToDetail(created), nil
}

func (uc *Usecase) Update(ctx context.Context, d Detail) (Detail, bool, error) {
	updated, found, err := uc.r.Update(ctx, d.ToMovie())
	if err != nil || !found {
		return Detail{}, false, err
	}
	return ToDetail(updated), true, nil
}

func (uc *Usecase) Delete(ctx context.Context, id int64) (Detail, bool, error) {
	removed, found, err := uc.r.Delete(ctx, id)
	if err != nil || !found {
		return Detail{}, false, err
	}
	return ToDetail(removed), true, nil
}
