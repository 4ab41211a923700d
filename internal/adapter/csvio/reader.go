// Package csvio reads the treated ANA wide-format CSV export into station
// records and writes the pipeline's output tables back out as CSV.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
)

// Required column names, with the legacy Portuguese headers of the original
// ANA export accepted as aliases.
var requiredColumns = []struct {
	name    string
	aliases []string
}{
	{name: "station_id", aliases: []string{"station_id", "EstacaoCodigo"}},
	{name: "region", aliases: []string{"region", "estado"}},
	{name: "year", aliases: []string{"year", "Ano"}},
	{name: "month", aliases: []string{"month", "Mes"}},
}

// dayColumnNames returns the accepted header names for a 1-based day slot.
func dayColumnNames(day int) []string {
	return []string{
		fmt.Sprintf("day_%02d", day),
		fmt.Sprintf("Chuva%02d", day),
	}
}

// ReadDataset parses a wide-format CSV stream into station records.
//
// The header must contain station_id, region, year, and month (or their
// legacy aliases); a missing required column fails with a SchemaError before
// anything is parsed. Day columns are optional: only the ones present are
// expanded, per the fixed 31-slot layout. Rows with non-numeric year or month
// are skipped, and blank or non-numeric daily cells become missing readings.
func ReadDataset(r io.Reader) ([]domain.StationRecord, error) {
	br := bufio.NewReader(r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	required, err := resolveRequired(colIdx)
	if err != nil {
		return nil, err
	}
	dayIdx := resolveDayColumns(colIdx)

	var records []domain.StationRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		rec, ok := parseRow(row, required, dayIdx)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadDatasetFile opens and parses a wide-format CSV file.
func ReadDatasetFile(path string) ([]domain.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return records, nil
}

// sniffDelimiter inspects the header line for the field separator. ANA
// exports use semicolons; treated exports use commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peeked, _ := br.Peek(4096)
	line, _, _ := strings.Cut(string(peeked), "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// requiredIdx maps required column names to their header positions.
type requiredIdx struct {
	stationID, region, year, month int
}

func resolveRequired(colIdx map[string]int) (requiredIdx, error) {
	positions := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		found := -1
		for _, alias := range col.aliases {
			if i, ok := colIdx[alias]; ok {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, col.name)
			continue
		}
		positions[col.name] = found
	}
	if len(missing) > 0 {
		return requiredIdx{}, &domain.SchemaError{Missing: missing}
	}
	return requiredIdx{
		stationID: positions["station_id"],
		region:    positions["region"],
		year:      positions["year"],
		month:     positions["month"],
	}, nil
}

// resolveDayColumns maps 1-based days to header positions, skipping days
// whose column is absent from the file.
func resolveDayColumns(colIdx map[string]int) map[int]int {
	dayIdx := make(map[int]int)
	for day := 1; day <= domain.MaxDayOfMonth; day++ {
		for _, name := range dayColumnNames(day) {
			if i, ok := colIdx[name]; ok {
				dayIdx[day] = i
				break
			}
		}
	}
	return dayIdx
}

func parseRow(row []string, required requiredIdx, dayIdx map[int]int) (domain.StationRecord, bool) {
	stationID := field(row, required.stationID)
	region := field(row, required.region)
	year, errY := strconv.Atoi(field(row, required.year))
	month, errM := strconv.Atoi(field(row, required.month))
	if stationID == "" || errY != nil || errM != nil {
		return domain.StationRecord{}, false
	}

	rec := domain.StationRecord{
		StationID: stationID,
		Region:    region,
		Year:      year,
		Month:     month,
	}
	for day, idx := range dayIdx {
		cell := field(row, idx)
		if cell == "" {
			continue
		}
		// ANA decimal cells may use a comma separator.
		value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
		if err != nil {
			continue
		}
		rec.SetDailyValue(day, value)
	}
	return rec, true
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
