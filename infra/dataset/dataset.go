// Package dataset loads fleet snapshots from CSV or JSON files.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/trainready/core/model"
)

// ErrMissingColumn is returned when the mandatory id column is absent.
var ErrMissingColumn = errors.New("missing column")

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config locates the fleet snapshot.
type Config struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// SetDefaults infers the format from the file extension.
func (c *Config) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatFromPath(c.Path)
	}
	c.Format = strings.ToLower(c.Format)
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Format != FormatCSV && c.Format != FormatJSON {
		return fmt.Errorf("unsupported dataset format %q", c.Format)
	}
	return nil
}

// FormatFromPath returns json for .json files and csv otherwise.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// Load reads and normalizes the snapshot described by cfg.
func Load(cfg Config) ([]model.Vehicle, error) {
	raws, err := LoadRaw(cfg)
	if err != nil {
		return nil, err
	}
	return model.NormalizeAll(raws), nil
}

// LoadRaw reads the snapshot without normalizing it.
func LoadRaw(cfg Config) ([]model.RawVehicle, error) {
	cfg.SetDefaults()
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	switch cfg.Format {
	case FormatJSON:
		return ReadJSON(f)
	case FormatCSV:
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", cfg.Format)
	}
}

// ReadCSV parses a CSV stream with a header row. Header names are trimmed
// and lower-cased; cell values are kept verbatim. Short rows leave the
// trailing columns absent.
func ReadCSV(r io.Reader) ([]model.RawVehicle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, model.ColID)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if !contains(header, model.ColID) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, model.ColID)
	}

	out := []model.RawVehicle{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		row := make(model.RawVehicle, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadJSON parses a JSON array of objects. Numbers and booleans are kept
// in their textual form; null values are treated as absent.
func ReadJSON(r io.Reader) ([]model.RawVehicle, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	out := make([]model.RawVehicle, 0, len(rows))
	for i, obj := range rows {
		row := make(model.RawVehicle, len(obj))
		for k, val := range obj {
			s, ok := stringify(val)
			if ok {
				row[strings.ToLower(strings.TrimSpace(k))] = s
			}
		}
		if _, ok := row[model.ColID]; !ok {
			return nil, fmt.Errorf("record %d: %w: %s", i, ErrMissingColumn, model.ColID)
		}
		out = append(out, row)
	}
	return out, nil
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "1", true
		}
		return "0", true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
