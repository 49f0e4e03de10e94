package repository

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/rs/zerolog"
)

// utf8BOM is stripped from the start of the file; spreadsheet exports add it.
const utf8BOM = "\xEF\xBB\xBF"

var csvColumns = []string{
	"reference_number",
	"origin",
	"destination",
	"equipment_type",
	"rate",
	"commodity",
}

// CSVLoadRepository serves loads from a snapshot read once at startup.
//
// The snapshot is never mutated after construction, so concurrent reads need
// no locking.
type CSVLoadRepository struct {
	loads []model.Load
}

// NewCSVLoadRepository reads path into memory. Any read or parse failure is
// returned so startup can abort.
func NewCSVLoadRepository(path string, logger *zerolog.Logger) (*CSVLoadRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open loads csv: %w", err)
	}
	defer f.Close()

	loads, err := ParseLoadsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse loads csv %s: %w", path, err)
	}

	logger.Info().
		Str("path", path).
		Int("count", len(loads)).
		Msg("loaded loads from csv")

	return NewCSVLoadRepositoryFromLoads(loads), nil
}

// NewCSVLoadRepositoryFromLoads wraps an already parsed snapshot.
func NewCSVLoadRepositoryFromLoads(loads []model.Load) *CSVLoadRepository {
	snapshot := make([]model.Load, len(loads))
	copy(snapshot, loads)
	return &CSVLoadRepository{loads: snapshot}
}

// ParseLoadsCSV parses a loads file with a header row.
//
// Columns are located by header name, so their order does not matter. Text
// fields are trimmed and uppercased; rate must parse as a float.
func ParseLoadsCSV(r io.Reader) ([]model.Load, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, column := range csvColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	field := func(record []string, column string) string {
		return strings.ToUpper(strings.TrimSpace(record[index[column]]))
	}

	loads := make([]model.Load, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)

		rateText := strings.TrimSpace(record[index["rate"]])
		rate, err := strconv.ParseFloat(rateText, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate %q", line, rateText)
		}

		loads = append(loads, model.Load{
			ReferenceNumber: field(record, "reference_number"),
			Origin:          field(record, "origin"),
			Destination:     field(record, "destination"),
			EquipmentType:   field(record, "equipment_type"),
			Rate:            rate,
			Commodity:       field(record, "commodity"),
		})
	}

	return loads, nil
}

// Len reports the snapshot size.
func (r *CSVLoadRepository) Len() int {
	return len(r.loads)
}

func (r *CSVLoadRepository) FindByReferences(_ context.Context, refs []string) ([]model.Load, error) {
	wanted := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		wanted[model.NormalizeReference(ref)] = struct{}{}
	}

	results := make([]model.Load, 0)
	for _, load := range r.loads {
		if _, ok := wanted[load.ReferenceNumber]; ok {
			results = append(results, load)
		}
	}

	return results, nil
}

// FindByLane matches origin and destination exactly, ignoring case. A
// non-empty equipment must be one of the load's " OR " separated types.
func (r *CSVLoadRepository) FindByLane(_ context.Context, origin, destination, equipment string) ([]model.Load, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	equipment = strings.TrimSpace(equipment)

	results := make([]model.Load, 0)
	for _, load := range r.loads {
		if !strings.EqualFold(load.Origin, origin) || !strings.EqualFold(load.Destination, destination) {
			continue
		}
		if equipment != "" && !load.AcceptsEquipment(equipment) {
			continue
		}
		results = append(results, load)
	}

	return results, nil
}
