package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteModel bridges to an external scoring service over HTTP. The
// service exposes POST /classify and POST /forecast and owns the actual
// model artifacts, which keeps heavyweight runtimes out of this process.
type RemoteModel struct {
	endpoint string
	client   *http.Client
}

func NewRemoteModel(endpoint string, timeout time.Duration) *RemoteModel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteModel{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Features []float64 `json:"features"`
}

type classifyResponse struct {
	Probability float64 `json:"probability"`
}

type forecastResponse struct {
	Predictions []float64 `json:"predictions"`
}

func (m *RemoteModel) Name() string {
	return "remote:" + m.endpoint
}

func (m *RemoteModel) PredictProba(features []float64) (float64, error) {
	var resp classifyResponse
	if err := m.post("/classify", features, &resp); err != nil {
		return 0, err
	}
	return resp.Probability, nil
}

func (m *RemoteModel) Forecast(features []float64) ([]float64, error) {
	var resp forecastResponse
	if err := m.post("/forecast", features, &resp); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

func (m *RemoteModel) post(path string, features []float64, out interface{}) error {
	body, err := json.Marshal(scoreRequest{Features: features})
	if err != nil {
		return fmt.Errorf("failed to encode score request: %w", err)
	}

	resp, err := m.client.Post(m.endpoint+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: scoring service returned status %d", ErrModelUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode score response: %w", err)
	}

	return nil
}
