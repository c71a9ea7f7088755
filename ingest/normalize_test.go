package ingest

import (
	"errors"
	"testing"
	"time"

	"station_data_sync/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestFloorTimestamp(t *testing.T) {
	ts := time.Date(2026, time.March, 4, 12, 3, 47, 0, time.UTC)
	floored := FloorTimestamp(ts)

	assert.Equal(t, time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC), floored)
}

func TestFloorTimestamp_Idempotent(t *testing.T) {
	cases := []time.Time{
		time.Date(2026, time.March, 4, 12, 3, 47, 0, time.UTC),
		time.Date(2026, time.March, 4, 12, 5, 0, 0, time.UTC),
		time.Date(2026, time.March, 4, 23, 59, 59, 0, time.UTC),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, ts := range cases {
		once := FloorTimestamp(ts)
		twice := FloorTimestamp(once)
		assert.Equal(t, once, twice, "flooring must be idempotent for %s", ts)
	}
}

func TestFloorTimestamp_AlignedInputIsUnchanged(t *testing.T) {
	aligned := time.Date(2026, time.March, 4, 12, 45, 0, 0, time.UTC)
	assert.Equal(t, aligned, FloorTimestamp(aligned))
}

func TestFloorTimestamp_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, time.March, 4, 13, 3, 47, 0, loc)

	floored := FloorTimestamp(ts)
	assert.Equal(t, time.UTC, floored.Location())
	assert.Equal(t, time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC), floored)
}

func TestParseTimestamp_KnownFormats(t *testing.T) {
	want := time.Date(2026, time.March, 4, 12, 3, 47, 0, time.UTC)

	for _, raw := range []string{
		"2026-03-04T12:03:47Z",
		"2026-03-04T12:03:47",
		"2026-03-04 12:03:47",
	} {
		got, err := ParseTimestamp(raw)
		require.NoError(t, err, "format %q should parse", raw)
		assert.True(t, want.Equal(got), "parsed %q to %s", raw, got)
	}
}

func TestParseTimestamp_Unrecognized(t *testing.T) {
	_, err := ParseTimestamp("04/03/2026 12:03")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	raw := source.RawReading{
		CollectTime:     strPtr("2026-03-04T12:03:47Z"),
		GenerationPower: floatPtr(4213.5),
		GenerationDay:   floatPtr(11.2),
		GenerationTotal: floatPtr(20481.7),
		DeviceState:     intPtr(1),
	}

	reading, err := Normalize(raw, "ST-001")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC), reading.Timestamp)
	assert.Equal(t, "ST-001", reading.StationID)
	assert.Equal(t, 4213.5, reading.PowerW)
	assert.Equal(t, 11.2, reading.EnergyDayKWh)
	assert.Equal(t, 20481.7, reading.EnergyTotalKWh)
	assert.Equal(t, 1, reading.StatusCode)
}

func TestNormalize_MissingTimestamp(t *testing.T) {
	raw := source.RawReading{
		GenerationPower: floatPtr(100),
	}

	_, err := Normalize(raw, "ST-001")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "collectTime", schemaErr.Field)
}

func TestNormalize_MissingPower(t *testing.T) {
	raw := source.RawReading{
		CollectTime: strPtr("2026-03-04T12:03:47Z"),
	}

	_, err := Normalize(raw, "ST-001")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "generationPower", schemaErr.Field)
}

func TestNormalize_MalformedTimestamp(t *testing.T) {
	raw := source.RawReading{
		CollectTime:     strPtr("not-a-time"),
		GenerationPower: floatPtr(100),
	}

	_, err := Normalize(raw, "ST-001")

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "collectTime", schemaErr.Field)
}

func TestNormalize_StationMismatch(t *testing.T) {
	raw := source.RawReading{
		CollectTime:     strPtr("2026-03-04T12:03:47Z"),
		GenerationPower: floatPtr(100),
		StationID:       strPtr("ST-002"),
	}

	_, err := Normalize(raw, "ST-001")

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "stationId", schemaErr.Field)
}

func TestNormalize_OptionalFieldsDefaultToZero(t *testing.T) {
	raw := source.RawReading{
		CollectTime:     strPtr("2026-03-04T12:03:47Z"),
		GenerationPower: floatPtr(100),
	}

	reading, err := Normalize(raw, "ST-001")
	require.NoError(t, err)

	assert.Zero(t, reading.EnergyDayKWh)
	assert.Zero(t, reading.EnergyTotalKWh)
	assert.Zero(t, reading.StatusCode)
}
