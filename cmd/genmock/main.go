// Command genmock generates a synthetic wide-format rain-gauge dataset for
// local runs and test fixtures. Stations get realistic coverage: most months
// are present with a tunable share of missing days, some months drop out
// entirely, and a small rate of duplicate month rows exercises the
// deduplication shields.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/stations.csv -regions MG,SP,BA -stations 20
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/rain-gauge-metrics/internal/adapter/csvio"
	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the dataset CSV")
	regions := flag.String("regions", "MG,SP,BA", "comma-separated region codes")
	stations := flag.Int("stations", 20, "stations per region")
	startYear := flag.Int("start-year", 2021, "first year of data")
	endYear := flag.Int("end-year", 2024, "last year of data")
	missingRate := flag.Float64("missing-rate", 0.15, "probability a day in a present month has no reading")
	outageRate := flag.Float64("outage-rate", 0.08, "probability a station-month is entirely absent")
	dupRate := flag.Float64("dup-rate", 0.02, "probability a month row is emitted twice")
	seed := flag.Int64("seed", 7, "generator seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	var records []domain.StationRecord

	for _, region := range strings.Split(*regions, ",") {
		region = strings.TrimSpace(region)
		for i := 1; i <= *stations; i++ {
			stationID := fmt.Sprintf("%s%06d", region, i)
			records = append(records, stationRecords(rng, stationID, region, *startYear, *endYear, *missingRate, *outageRate, *dupRate)...)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := csvio.WriteDataset(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("wrote %d records (%d stations, %d-%d) to %s",
		len(records), *stations*len(strings.Split(*regions, ",")), *startYear, *endYear, *out)
	return nil
}

func stationRecords(rng *rand.Rand, stationID, region string, startYear, endYear int, missingRate, outageRate, dupRate float64) []domain.StationRecord {
	var records []domain.StationRecord
	for year := startYear; year <= endYear; year++ {
		for month := 1; month <= 12; month++ {
			if rng.Float64() < outageRate {
				continue
			}

			rec := domain.StationRecord{StationID: stationID, Region: region, Year: year, Month: month}
			for day := 1; day <= daysInMonth(year, month); day++ {
				if rng.Float64() < missingRate {
					continue
				}
				rec.SetDailyValue(day, rainfall(rng))
			}
			records = append(records, rec)

			if rng.Float64() < dupRate {
				records = append(records, rec)
			}
		}
	}
	return records
}

// rainfall draws a plausible daily total in millimeters: mostly dry days,
// occasionally a heavy downpour.
func rainfall(rng *rand.Rand) float64 {
	if rng.Float64() < 0.6 {
		return 0
	}
	v := rng.ExpFloat64() * 12
	if v > 180 {
		v = 180
	}
	return float64(int(v*10)) / 10
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
