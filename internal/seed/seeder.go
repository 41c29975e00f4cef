package seed

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"batik-store/internal/model"

	"github.com/rs/zerolog"
)

// Seeder loads catalogue files concurrently and upserts the merged result.
type Seeder struct {
	loader Loader
	store  Upserter
	files  []string
	logger zerolog.Logger
}

// NewSeeder creates a catalogue seeder over files.
func NewSeeder(loader Loader, store Upserter, files []string, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		files:  files,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Run loads every file and upserts the products. When the same ID appears
// in several files the later file wins. Any load error aborts the seed
// before anything is written.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	s.logger.Info().Int("file_count", len(s.files)).Msg("seeding catalogue")

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(s.files))
	var wg sync.WaitGroup

	for i, path := range s.files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			products, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(s.files))
	for r := range resultChan {
		results[r.index] = r
	}

	byID := make(map[int64]model.Product)
	for i, r := range results {
		if r.err != nil {
			s.logger.Error().Err(r.err).Str("file", s.files[i]).Msg("failed to load catalogue file")
			return 0, fmt.Errorf("failed to load catalogue file %s: %w", s.files[i], r.err)
		}
		for _, p := range r.products {
			byID[p.ID] = p
		}
	}

	products := make([]model.Product, 0, len(byID))
	for _, p := range byID {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	n, err := s.store.Upsert(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert catalogue: %w", err)
	}

	s.logger.Info().Int("products", n).Msg("catalogue seeded")
	return n, nil
}
