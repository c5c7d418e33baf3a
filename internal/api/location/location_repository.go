// Package location resolves free-text city names to IATA and country codes
// using a static airport-codes reference dataset loaded once at startup.
package location

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

var _ Resolver = (*DatasetResolver)(nil)

// Resolver maps a city name to its location codes.
type Resolver interface {
	Resolve(ctx context.Context, cityName string) (types.LocationCode, error)
}

// entry is one usable row of the reference dataset.
type entry struct {
	Municipality string
	IATACode     string
	Type         string
	ISOCountry   string
}

// typePriority orders candidates for one city. A city-level code beats any
// specific airport, and larger airports beat smaller ones: downstream flight
// and hotel searches are most useful against the broadest code.
var typePriority = map[string]int{
	"city_code":      0,
	"large_airport":  1,
	"medium_airport": 2,
	"small_airport":  3,
}

// DatasetResolver answers lookups from an in-memory index keyed by lowercase
// municipality. Entries per city are pre-sorted by type priority, so the
// first match is always the best one.
type DatasetResolver struct {
	logger     *slog.Logger
	byCity     map[string][]entry
	totalRows  int
	usableRows int
}

// NewDatasetResolver loads the reference CSV. A missing or unreadable
// dataset is a fatal startup condition for the resolver.
func NewDatasetResolver(path string, logger *slog.Logger) (*DatasetResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airport codes dataset: %w", err)
	}
	defer f.Close()

	r, err := newDatasetResolverFromReader(f, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded airport codes dataset",
		slog.String("path", path),
		slog.Int("rows", r.totalRows),
		slog.Int("usable", r.usableRows),
	)
	return r, nil
}

func newDatasetResolverFromReader(src io.Reader, logger *slog.Logger) (*DatasetResolver, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"municipality", "iata_code", "type", "iso_country"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", required)
		}
	}

	r := &DatasetResolver{logger: logger, byCity: make(map[string][]entry)}
	field := func(record []string, name string) string {
		i := col[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}
		r.totalRows++

		e := entry{
			Municipality: field(record, "municipality"),
			IATACode:     field(record, "iata_code"),
			Type:         field(record, "type"),
			ISOCountry:   field(record, "iso_country"),
		}
		// Rows without an IATA code or marked closed are unusable.
		if e.IATACode == "" || e.Type == "closed" || e.Municipality == "" {
			continue
		}
		// A blank type is the city's own multi-airport code, not an
		// airport subtype.
		if e.Type == "" {
			e.Type = "city_code"
		}
		key := strings.ToLower(e.Municipality)
		r.byCity[key] = append(r.byCity[key], e)
		r.usableRows++
	}

	for _, entries := range r.byCity {
		sort.SliceStable(entries, func(i, j int) bool {
			return priorityOf(entries[i].Type) < priorityOf(entries[j].Type)
		})
	}
	return r, nil
}

func priorityOf(entryType string) int {
	if p, ok := typePriority[entryType]; ok {
		return p
	}
	return len(typePriority)
}

// Resolve returns the best location code for cityName, matched
// case-insensitively, or ErrNotFound when the dataset has no entry for it.
func (r *DatasetResolver) Resolve(ctx context.Context, cityName string) (types.LocationCode, error) {
	entries := r.byCity[strings.ToLower(strings.TrimSpace(cityName))]
	if len(entries) == 0 {
		return types.LocationCode{}, fmt.Errorf("no location codes for %q: %w", cityName, types.ErrNotFound)
	}
	best := entries[0]
	r.logger.DebugContext(ctx, "Resolved city to location codes",
		slog.String("city", cityName),
		slog.String("iata", best.IATACode),
		slog.String("country", best.ISOCountry),
		slog.String("type", best.Type),
	)
	return types.LocationCode{IATA: best.IATACode, Country: best.ISOCountry}, nil
}
