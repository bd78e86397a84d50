package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrUnknownSource = errors.New("unknown table source")

const (
	SourceLocal    = "local"
	SourceS3       = "s3"
	SourceDrive    = "drive"
	SourcePostgres = "postgres"
)

// Base names tried for each input table, in order.
var (
	reviewFiles    = []string{"restaurant_reviews", "reviews", "mapped_reviews_export"}
	salesFiles     = []string{"pos_sales", "pos", "sales"}
	inventoryFiles = []string{"inventory", "stock"}

	tableExtensions = []string{".csv", ".xlsx"}
)

// Source loads the three input tables of one analysis.
type Source interface {
	Load(ctx context.Context) (domain.Tables, error)
}

// DirSource reads tables from CSV or XLSX files in a directory. A missing
// file yields an empty table.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Load(ctx context.Context) (domain.Tables, error) {
	var tables domain.Tables
	if err := ctx.Err(); err != nil {
		return tables, err
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return tables, fmt.Errorf("data dir %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return tables, fmt.Errorf("data dir %s is not a directory", s.dir)
	}

	reviews, err := s.read(reviewFiles)
	if err != nil {
		return tables, err
	}
	if reviews != nil {
		tables.Reviews, tables.HasText = parseReviews(reviews)
	}

	sales, err := s.read(salesFiles)
	if err != nil {
		return tables, err
	}
	if sales != nil {
		tables.Sales = parseSales(sales, "sales")
	}

	inventory, err := s.read(inventoryFiles)
	if err != nil {
		return tables, err
	}
	if inventory != nil {
		tables.Inventory = parseInventory(inventory, "inventory")
	}

	log.Debug().
		Str("dir", s.dir).
		Int("reviews", len(tables.Reviews)).
		Int("sales", len(tables.Sales)).
		Int("inventory", len(tables.Inventory)).
		Msg("tables loaded")

	return tables, nil
}

// read returns nil when none of the candidate files exist.
func (s *DirSource) read(baseNames []string) (*rawTable, error) {
	path := findTableFile(s.dir, baseNames)
	if path == "" {
		log.Warn().Str("dir", s.dir).Strs("candidates", baseNames).Msg("table file not found")
		return nil, nil
	}

	table, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

func findTableFile(dir string, baseNames []string) string {
	for _, base := range baseNames {
		for _, ext := range tableExtensions {
			path := filepath.Join(dir, base+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// isTableFile reports whether name is one of the input table files.
func isTableFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))

	knownExt := false
	for _, e := range tableExtensions {
		if ext == e {
			knownExt = true
		}
	}
	if !knownExt {
		return false
	}

	for _, group := range [][]string{reviewFiles, salesFiles, inventoryFiles} {
		for _, b := range group {
			if base == b {
				return true
			}
		}
	}
	return false
}
