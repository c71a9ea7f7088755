package source

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"station_data_sync/config"
)

// FetchError indicates the vendor API call failed or its response could not
// be parsed. It terminates the run; the scheduler's next invocation is the retry.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client issues authenticated requests against the vendor API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a vendor API client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		token:   cfg.API.Token,
	}
}

// FetchReadings requests the most recent readings for the given station and
// returns them in response order.
func (c *Client) FetchReadings(stationID string) ([]RawReading, error) {
	u, err := url.Parse(c.baseURL + "/station/readings")
	if err != nil {
		return nil, &FetchError{URL: c.baseURL, Err: err}
	}

	params := url.Values{}
	params.Add("stationId", stationID)
	u.RawQuery = params.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			URL: u.String(),
			Err: fmt.Errorf("API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	readings, err := decodeReadings(body)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return readings, nil
}
