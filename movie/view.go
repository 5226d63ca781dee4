package movie

// Summary is the list projection of a movie.
type Summary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int32  `json:"year"`
}

// Detail is the full projection used for single fetches and for the
// create, update and delete payloads.
type Detail struct {
	ID       int64   `json:"id"`
	Title    *string `json:"title"`
	Year     *int32  `json:"year"`
	Duration *int32  `json:"duration"`
}

func ToSummary(m Movie) Summary {
	var year int32
	if m.Year != nil {
		year = *m.Year
	}
	return Summary{
		ID:    m.ID,
		Title: TitleOf(m),
		Year:  year,
	}
}

func ToSummaries(movies []Movie) []Summary {
	summaries := make([]Summary, len(movies))
	for i, m := range movies {
		summaries[i] = ToSummary(m)
	}
	return summaries
}

func ToDetail(m Movie) Detail {
	return Detail{
		ID:       m.ID,
		Title:    m.Title,
		Year:     m.Year,
		Duration: m.Duration,
	}
}

func (d Detail) ToMovie() Movie {
	return Movie{
		ID:       d.ID,
		Title:    d.Title,
		Year:     d.Year,
		Duration: d.Duration,
	}
}
