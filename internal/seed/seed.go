// Package seed loads the product catalogue from gzipped JSON-lines files
// and upserts it into the product repository on startup.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"batik-store/internal/model"
)

// Loader reads one catalogue file.
type Loader interface {
	// Load reads a gzipped catalogue file with one JSON product per line.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Upserter stores seeded products.
type Upserter interface {
	Upsert(ctx context.Context, products []model.Product) (int, error)
}

// decodeCatalog reads gzipped JSON lines from r. Blank lines are skipped.
func decodeCatalog(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: invalid product: %w", lineNo, err)
		}
		if p.ID <= 0 || strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("line %d: product needs an id and a name", lineNo)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	return products, nil
}

// EncodeCatalog writes products as gzipped JSON lines to w.
func EncodeCatalog(w io.Writer, products []model.Product) error {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	for i := range products {
		if err := enc.Encode(&products[i]); err != nil {
			gz.Close()
			return fmt.Errorf("failed to encode product %d: %w", products[i].ID, err)
		}
	}
	return gz.Close()
}
