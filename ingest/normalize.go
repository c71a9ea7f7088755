package ingest

import (
	"fmt"
	"strings"
	"time"

	"station_data_sync/models"
	"station_data_sync/source"
)

// BucketSize is the sampling grid all persisted timestamps align to.
const BucketSize = 5 * time.Minute

// SchemaError indicates a raw record is missing a field the target schema
// requires, or carries one that cannot be converted.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: required field %q is missing", e.Field)
}

// timestampFormats are tried in order; the vendor is not consistent about
// which one it emits.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a vendor timestamp string, trying known formats.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", value)
}

// FloorTimestamp truncates t to the largest 5-minute multiple not after it.
// Flooring an already floored timestamp is a no-op.
func FloorTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(BucketSize)
}

// Normalize maps a raw vendor record onto the target schema. The reading's
// station id comes from configuration, not the payload; when the payload names
// a station too, a mismatch is rejected rather than silently overridden.
func Normalize(raw source.RawReading, stationID string) (models.Reading, error) {
	if raw.CollectTime == nil {
		return models.Reading{}, &SchemaError{Field: "collectTime"}
	}
	if raw.GenerationPower == nil {
		return models.Reading{}, &SchemaError{Field: "generationPower"}
	}

	ts, err := ParseTimestamp(*raw.CollectTime)
	if err != nil {
		return models.Reading{}, &SchemaError{Field: "collectTime", Reason: err.Error()}
	}

	if raw.StationID != nil && *raw.StationID != stationID {
		return models.Reading{}, &SchemaError{
			Field:  "stationId",
			Reason: fmt.Sprintf("payload names station %q, run is for %q", *raw.StationID, stationID),
		}
	}

	reading := models.Reading{
		Timestamp: FloorTimestamp(ts),
		StationID: stationID,
		PowerW:    *raw.GenerationPower,
	}

	// Optional measurement fields default to zero when the vendor omits them
	if raw.GenerationDay != nil {
		reading.EnergyDayKWh = *raw.GenerationDay
	}
	if raw.GenerationTotal != nil {
		reading.EnergyTotalKWh = *raw.GenerationTotal
	}
	if raw.DeviceState != nil {
		reading.StatusCode = *raw.DeviceState
	}

	return reading, nil
}
