package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

const (
	colPrefix         = "name_prefix"
	colName           = "name"
	colInternalNames  = "internal_names"
	colType           = "type"
	colRA             = "ra"
	colDec            = "declination"
	colRedshift       = "redshift"
	colLastModified   = "lastmodified"
	colDiscoveryBib   = "Discovery_ADS_bibcode"
	colClassification = "Class_ADS_bibcodes"
)

var requiredColumns = []string{
	colPrefix, colName, colInternalNames, colType, colRA, colDec,
	colRedshift, colLastModified, colDiscoveryBib, colClassification,
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Filter loads the catalog export and keeps records of interest.
type Filter struct {
	interest domain.InterestSet
	logger   *slog.Logger
}

var _ ports.CatalogFilter = (*Filter)(nil)

// NewFilter binds the classification labels to select.
func NewFilter(interest domain.InterestSet, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Filter{interest: interest, logger: logger}
}

// Filter loads path and returns the records whose type is of interest and
// whose last modification is strictly less than maxAge before now.
func (f *Filter) Filter(path string, maxAge time.Duration, now time.Time) ([]domain.TransientRecord, error) {
	records, err := f.Load(path)
	if err != nil {
		return nil, err
	}

	selected := Select(records, f.interest, maxAge, now)
	f.logger.Info("catalog filtered", "records", len(records), "selected", len(selected))
	return selected, nil
}

// Load parses the snapshot at path. Its first line is a banner; the CSV
// header is on the second line. Rows with malformed fields are skipped.
func (f *Filter) Load(path string) ([]domain.TransientRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	records, skipped, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	if skipped > 0 {
		f.logger.Warn("skipped malformed catalog rows", "path", path, "skipped", skipped)
	}
	return records, nil
}

// Select keeps, in input order, the records of interest modified less than maxAge before now.
func Select(records []domain.TransientRecord, interest domain.InterestSet, maxAge time.Duration, now time.Time) []domain.TransientRecord {
	selected := make([]domain.TransientRecord, 0)
	for _, rec := range records {
		if !interest.Contains(rec.Type) {
			continue
		}
		if now.Sub(rec.LastModified) < maxAge {
			selected = append(selected, rec)
		}
	}
	return selected
}

// Parse reads a catalog export stream and reports how many rows were skipped.
func Parse(r io.Reader) ([]domain.TransientRecord, int, error) {
	br := bufio.NewReader(r)
	if _, err := br.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%w: snapshot has no header", domain.ErrParse)
		}
		return nil, 0, fmt.Errorf("read banner: %w", err)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read header: %v", domain.ErrParse, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("%w: missing column %q", domain.ErrParse, col)
		}
	}

	var (
		records []domain.TransientRecord
		skipped int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, index map[string]int) (domain.TransientRecord, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// only the timestamp is needed to place a record in the window
	modified, err := parseTimestamp(field(colLastModified))
	if err != nil {
		return domain.TransientRecord{}, err
	}

	return domain.TransientRecord{
		Prefix:                 field(colPrefix),
		Name:                   field(colName),
		InternalNames:          splitNames(field(colInternalNames)),
		Type:                   field(colType),
		RA:                     parseCoordinate(field(colRA)),
		Dec:                    parseCoordinate(field(colDec)),
		Redshift:               parseOptionalFloat(field(colRedshift)),
		LastModified:           modified,
		DiscoveryBibcode:       field(colDiscoveryBib),
		ClassificationBibcodes: field(colClassification),
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("lastmodified %q: unrecognized timestamp", value)
}

// parseCoordinate maps blank or unparsable degrees to NaN, which renders as N/A.
func parseCoordinate(value string) float64 {
	if p := parseOptionalFloat(value); p != nil {
		return *p
	}
	return math.NaN()
}

// parseOptionalFloat maps empty, nan and unparsable values to nil.
func parseOptionalFloat(value string) *float64 {
	if value == "" || strings.EqualFold(value, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

func splitNames(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
