// Package catalog seeds the ingredient catalog and default tags.
//
// Ingredient data comes from one or more sources (local paths or http(s) URLs).
// A source ending in .gz is gunzipped first. The remaining extension selects the
// format: .json holds [{"name": ..., "measurement_unit": ...}], anything else is
// CSV with "name,measurement_unit" rows.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// sourceResult holds the result of loading a single source
type sourceResult struct {
	index       int
	ingredients []models.Ingredient
	err         error
}

// Loader reads ingredient sources
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader with a default HTTP client
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Load reads all sources concurrently and returns their ingredients in source order.
// Duplicate (name, unit) pairs are dropped, keeping the first occurrence.
// Returns error if any source fails to load.
func (l *Loader) Load(ctx context.Context, sources []string) ([]models.Ingredient, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	resultChan := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			ingredients, err := l.loadSource(ctx, source)
			resultChan <- sourceResult{
				index:       index,
				ingredients: ingredients,
				err:         err,
			}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]sourceResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	type key struct{ name, unit string }
	seen := make(map[key]bool)
	var out []models.Ingredient

	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load source %d (%s): %w", i+1, sources[i], result.err)
		}
		for _, ing := range result.ingredients {
			k := key{ing.Name, ing.MeasurementUnit}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, ing)
		}
	}

	return out, nil
}

func (l *Loader) loadSource(ctx context.Context, source string) ([]models.Ingredient, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	name := source
	if strings.HasSuffix(name, ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
		name = strings.TrimSuffix(name, ".gz")
	}

	if strings.HasSuffix(name, ".json") {
		return parseJSON(r)
	}
	return parseCSV(r)
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseCSV reads "name,measurement_unit" rows, skipping blank ones
func parseCSV(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []models.Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv: %w", err)
		}
		if len(record) < 2 {
			if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
				continue
			}
			return nil, fmt.Errorf("line %d: expected name and measurement unit", lineOf(reader))
		}

		ing := models.Ingredient{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		}
		if ing.Name == "" {
			continue
		}
		out = append(out, ing)
	}
	return out, nil
}

func lineOf(r *csv.Reader) int {
	line, _ := r.FieldPos(0)
	return line
}

// parseJSON reads an array of ingredient objects
func parseJSON(r io.Reader) ([]models.Ingredient, error) {
	var raw []models.Ingredient
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("error decoding json: %w", err)
	}

	out := make([]models.Ingredient, 0, len(raw))
	for _, ing := range raw {
		ing.ID = 0
		ing.Name = strings.TrimSpace(ing.Name)
		ing.MeasurementUnit = strings.TrimSpace(ing.MeasurementUnit)
		if ing.Name != "" {
			out = append(out, ing)
		}
	}
	return out, nil
}
