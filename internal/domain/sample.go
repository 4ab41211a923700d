package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SampleStations selects a stratified subset of the station population.
//
// The input is partitioned by region, and within each region
// roundHalfUp(fraction * region size) stations are drawn uniformly without
// replacement. The draw is a documented contract: station IDs are sorted
// ascending, Fisher-Yates shuffled by a PRNG seeded from
// SHA-256("<seed>|<region>") (first 8 bytes, big-endian), and the first k IDs
// are kept. Identical seed and input always yield identical output, and the
// result does not depend on the order of the stations slice.
//
// Regions with very few stations may select zero or all stations depending on
// rounding; that is accepted behavior, not an error.
func SampleStations(stations []Station, fraction float64, seed int64) (map[string]struct{}, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, &InvalidParameterError{
			Param:  "fraction",
			Reason: fmt.Sprintf("must be in (0, 1], got %g", fraction),
		}
	}

	byRegion := make(map[string][]string)
	seen := make(map[Station]struct{}, len(stations))
	for _, s := range stations {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		byRegion[s.Region] = append(byRegion[s.Region], s.StationID)
	}

	selected := make(map[string]struct{})
	for region, ids := range byRegion {
		sort.Strings(ids)

		rng := rand.New(rand.NewSource(regionSeed(seed, region)))
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

		k := roundHalfUp(fraction * float64(len(ids)))
		for _, id := range ids[:k] {
			selected[id] = struct{}{}
		}
	}
	return selected, nil
}

// regionSeed derives a per-region PRNG seed from the global seed. Hashing the
// (seed, region) pair decorrelates the per-region streams and keeps the draw
// independent of region iteration order.
func regionSeed(seed int64, region string) int64 {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%s", seed, region))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// roundHalfUp resolves fractional sample counts: 2.5 rounds to 3.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
