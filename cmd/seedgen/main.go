// Command seedgen writes the sample batik catalogue as gzipped JSON-lines
// files for the startup seeder.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"batik-store/internal/model"
	"batik-store/internal/seed"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const imageBase = "https://picsum.photos/400/500?random="

// sampleCatalog is split across two files so the seeder's concurrent load
// and merge are exercised.
var sampleCatalog = map[string][]model.Product{
	"catalog1.gz": {
		{ID: 1, Name: "Batik Parang", Price: 250000, Stock: 15, Category: "Klasik", Image: imageBase + "1",
			Description: "Batik Parang merupakan salah satu motif batik tertua di Indonesia. Motif ini melambangkan kesatuan, kekuatan, dan pertumbuhan."},
		{ID: 2, Name: "Batik Mega Mendung", Price: 300000, Stock: 10, Category: "Pesisir", Image: imageBase + "2",
			Description: "Batik Mega Mendung berasal dari Cirebon dengan motif awan yang khas."},
		{ID: 3, Name: "Batik Sekar Jagad", Price: 275000, Stock: 8, Category: "Modern", Image: imageBase + "3",
			Description: "Motif Sekar Jagad menggambarkan keragaman bunga di seluruh dunia."},
		{ID: 4, Name: "Batik Kawung", Price: 225000, Stock: 12, Category: "Klasik", Image: imageBase + "4",
			Description: "Motif Kawung berbentuk buah aren yang tersusun geometris."},
	},
	"catalog2.gz": {
		{ID: 5, Name: "Batik Sogan", Price: 350000, DiscountPercent: 10, Stock: 7, Category: "Klasik", Image: imageBase + "5",
			Description: "Batik Sogan dengan warna coklat khas keraton Solo dan Yogyakarta."},
		{ID: 6, Name: "Batik Pekalongan", Price: 320000, Stock: 9, Category: "Pesisir", Image: imageBase + "6",
			Description: "Batik Pekalongan dengan warna cerah dan motif flora pesisir."},
		{ID: 7, Name: "Batik Tujuh Rupa", Price: 400000, Stock: 5, Category: "Pesisir", Image: imageBase + "7",
			Description: "Batik Tujuh Rupa memadukan tujuh warna dalam satu kain."},
		{ID: 8, Name: "Batik Lasem", Price: 375000, DiscountPercent: 5, Stock: 6, Category: "Pesisir", Image: imageBase + "8",
			Description: "Batik Lasem dengan merah khas pengaruh budaya Tionghoa."},
	},
}

func main() {
	dataDir := pflag.StringP("dir", "d", "data", "output directory for catalogue files")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", *dataDir).Msg("failed to create directory")
	}

	for filename, products := range sampleCatalog {
		path := filepath.Join(*dataDir, filename)
		if err := writeCatalog(path, products); err != nil {
			logger.Fatal().Err(err).Str("file", path).Msg("failed to write catalogue file")
		}
		logger.Info().Str("file", path).Int("products", len(products)).Msg("catalogue file written")
	}
}

func writeCatalog(path string, products []model.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := seed.EncodeCatalog(f, products); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
