package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"movieapp/movie"
	"regexp"
	"strconv"
	"strings"
)

// MovieLens titles carry the release year in trailing parentheses, e.g.
// "Toy Story (1995)" or "Babylon 5 (1994-1998)".
var titleYearPattern = regexp.MustCompile(`^(.*\S)\s*\((\d{4})(?:[-–]\d{0,4})?\)$`)

type importResult struct {
	Imported int
	Skipped  int
}

// importMovies reads a MovieLens movies.csv from r and inserts every row
// with a parsable year. A limit of zero imports everything.
func importMovies(ctx context.Context, repo movie.Repository, r io.Reader, limit int) (importResult, error) {
	var res importResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idxTitle, err := parseMovieCSVHeader(reader)
	if err != nil {
		return res, err
	}

	for limit <= 0 || res.Imported < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		m, ok := parseMovieRecord(record, idxTitle)
		if !ok {
			res.Skipped++
			continue
		}

		if _, err := repo.Insert(ctx, m); err != nil {
			if movie.IsConstraintViolation(err) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("insert %q: %w", movie.TitleOf(m), err)
		}
		res.Imported++
	}

	return res, nil
}

func parseMovieCSVHeader(reader *csv.Reader) (int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, err
	}

	for i, name := range header {
		if strings.TrimSpace(name) == "title" {
			return i, nil
		}
	}
	return 0, errors.New("missing title column in csv header")
}

func parseMovieRecord(record []string, idxTitle int) (movie.Movie, bool) {
	if idxTitle >= len(record) {
		return movie.Movie{}, false
	}

	title, year, ok := splitTitleYear(record[idxTitle])
	if !ok {
		return movie.Movie{}, false
	}
	return movie.Movie{Title: &title, Year: &year}, true
}

func splitTitleYear(raw string) (string, int32, bool) {
	match := titleYearPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return "", 0, false
	}

	year, err := strconv.ParseInt(match[2], 10, 32)
	if err != nil {
		return "", 0, false
	}
	return match[1], int32(year), true
}
