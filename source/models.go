package source

import "encoding/json"

// RawReading is one sample as the vendor returns it. Pointer fields make
// missing keys distinguishable from zero values so the normalizer can reject
// incomplete records.
type RawReading struct {
	CollectTime     *string  `json:"collectTime"`
	StationID       *string  `json:"stationId"`
	GenerationPower *float64 `json:"generationPower"`
	GenerationDay   *float64 `json:"generationValue"`
	GenerationTotal *float64 `json:"generationTotal"`
	DeviceState     *int     `json:"deviceState"`
}

// envelope matches the vendor's wrapped response form {"data": [...]}.
type envelope struct {
	Data []RawReading `json:"data"`
}

// decodeReadings accepts either the wrapped form or a bare array, which the
// vendor has been observed to switch between across API versions.
func decodeReadings(body []byte) ([]RawReading, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var readings []RawReading
	if err := json.Unmarshal(body, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}
