package ingest

import (
	"station_data_sync/models"
)

// Deduplicate collapses readings sharing a bucket key down to one reading per
// bucket. The vendor can report sub-5-minute samples; within a bucket the
// last-encountered sample wins. Output preserves the order in which buckets
// first appeared.
func Deduplicate(readings []models.Reading) []models.Reading {
	if len(readings) == 0 {
		return nil
	}

	latest := make(map[models.BucketKey]models.Reading, len(readings))
	var order []models.BucketKey

	for _, r := range readings {
		key := r.Key()
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = r
	}

	deduped := make([]models.Reading, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, latest[key])
	}

	return deduped
}
