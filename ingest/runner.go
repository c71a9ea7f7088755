package ingest

import (
	"station_data_sync/logger"
	"station_data_sync/models"
	"station_data_sync/source"
)

// Fetcher retrieves the current raw readings for a station.
type Fetcher interface {
	FetchReadings(stationID string) ([]source.RawReading, error)
}

// Writer persists one normalized reading, keyed by its bucket.
type Writer interface {
	Upsert(reading models.Reading) error
}

// RunResult summarizes one sync run.
type RunResult struct {
	Fetched int
	Buckets int
	Written int
}

// Runner drives one fetch → normalize → dedupe → write pass. Each upsert is
// independent; a failure terminates the run but leaves earlier rows committed.
type Runner struct {
	fetcher   Fetcher
	writer    Writer
	stationID string
}

// NewRunner wires a runner from its collaborators.
func NewRunner(fetcher Fetcher, writer Writer, stationID string) *Runner {
	return &Runner{
		fetcher:   fetcher,
		writer:    writer,
		stationID: stationID,
	}
}

// Run executes a single sync pass. It returns the partial result alongside
// the error so callers can report how far the run got.
func (r *Runner) Run() (RunResult, error) {
	var result RunResult

	raw, err := r.fetcher.FetchReadings(r.stationID)
	if err != nil {
		return result, err
	}
	result.Fetched = len(raw)
	logger.Printf("Fetched %d raw reading(s) for station %s\n", len(raw), r.stationID)

	if len(raw) == 0 {
		logger.Println("No readings to sync")
		return result, nil
	}

	readings := make([]models.Reading, 0, len(raw))
	for _, record := range raw {
		reading, err := Normalize(record, r.stationID)
		if err != nil {
			return result, err
		}
		readings = append(readings, reading)
	}

	deduped := Deduplicate(readings)
	result.Buckets = len(deduped)
	if dropped := len(readings) - len(deduped); dropped > 0 {
		logger.Debugf("Collapsed %d sample(s) into existing buckets\n", dropped)
	}

	for _, reading := range deduped {
		if err := r.writer.Upsert(reading); err != nil {
			return result, err
		}
		result.Written++
	}

	logger.Printf("Upserted %d reading(s) into %d bucket(s)\n", result.Written, result.Buckets)
	return result, nil
}
