package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/GovindharajM27/ticketbookingapp/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed catalog.json
var catalogJSON []byte

type catalogEntry struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Description string          `json:"description"`
	PosterUrl   string          `json:"posterUrl"`
}

// InMemoryMovieRepository serves the embedded movie catalog. The
// catalog is read-only and fixed for the lifetime of the process.
type InMemoryMovieRepository struct {
	movies []*domain.Movie
	byID   map[string]*domain.Movie
}

func NewInMemoryMovieRepository() (*InMemoryMovieRepository, error) {
	var entries []catalogEntry

	err := json.Unmarshal(catalogJSON, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	repo := &InMemoryMovieRepository{
		movies: make([]*domain.Movie, 0, len(entries)),
		byID:   make(map[string]*domain.Movie, len(entries)),
	}

	for _, entry := range entries {
		date, err := time.Parse(time.DateOnly, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q for catalog item %s: %w", entry.Date, entry.ID, err)
		}

		if _, ok := repo.byID[entry.ID]; ok {
			return nil, fmt.Errorf("duplicate catalog item id %s", entry.ID)
		}

		movie := &domain.Movie{
			ID:          entry.ID,
			Title:       entry.Title,
			Genre:       entry.Genre,
			Price:       entry.Price,
			Date:        date,
			Time:        entry.Time,
			Description: entry.Description,
			PosterUrl:   entry.PosterUrl,
		}

		repo.movies = append(repo.movies, movie)
		repo.byID[movie.ID] = movie
	}

	return repo, nil
}

// GetAll filters by a case-insensitive substring match on title and
// genre, then paginates. Catalog order is preserved.
func (r *InMemoryMovieRepository) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	term := strings.ToLower(filters.Term)

	matched := make([]*domain.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		if term == "" ||
			strings.Contains(strings.ToLower(movie.Title), term) ||
			strings.Contains(strings.ToLower(movie.Genre), term) {
			matched = append(matched, movie)
		}
	}

	totalRecords := len(matched)
	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	// A huge page number can overflow the offset into a negative value,
	// which must not index the slice.
	start := filters.Offset()
	if start < 0 || start > totalRecords {
		start = totalRecords
	}

	end := start + filters.Limit()
	if end > totalRecords {
		end = totalRecords
	}

	return matched[start:end], metadata, nil
}

func (r *InMemoryMovieRepository) GetById(ctx context.Context, id string) (*domain.Movie, error) {
	movie, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return movie, nil
}
