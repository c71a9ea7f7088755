package source

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"station_data_sync/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			Token:          "test-token",
			StationID:      "ST-001",
			TimeoutSeconds: 5,
		},
	}
}

func TestFetchReadings_Enveloped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/station/readings", r.URL.Path)
		assert.Equal(t, "ST-001", r.URL.Query().Get("stationId"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"collectTime":"2026-03-04T12:03:47Z","generationPower":4213.5,"generationValue":11.2},
			{"collectTime":"2026-03-04T12:08:12Z","generationPower":4388.0}
		]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	readings, err := client.FetchReadings("ST-001")
	require.NoError(t, err)

	require.Len(t, readings, 2)
	require.NotNil(t, readings[0].CollectTime)
	assert.Equal(t, "2026-03-04T12:03:47Z", *readings[0].CollectTime)
	require.NotNil(t, readings[0].GenerationPower)
	assert.Equal(t, 4213.5, *readings[0].GenerationPower)
	assert.Nil(t, readings[1].GenerationDay)
}

func TestFetchReadings_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"collectTime":"2026-03-04T12:03:47Z","generationPower":900}]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	readings, err := client.FetchReadings("ST-001")
	require.NoError(t, err)
	require.Len(t, readings, 1)
}

func TestFetchReadings_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	readings, err := client.FetchReadings("ST-001")
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestFetchReadings_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchReadings("ST-001")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "401")
}

func TestFetchReadings_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchReadings("ST-001")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestFetchReadings_ConnectionRefused(t *testing.T) {
	// Server closed before the request is made
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchReadings("ST-001")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}
