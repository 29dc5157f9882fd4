package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPOracle calls a text-classification endpoint in the HuggingFace
// inference style: POST {"inputs": text}, answered by a list of
// {label, score} pairs, possibly nested one level. The highest score wins.
type HTTPOracle struct {
	httpClient *http.Client
	url        string
	token      string
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type classLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewHTTPOracle has no client-side timeout of its own; the evaluator bounds
// each call through the context.
func NewHTTPOracle(url, token string) *HTTPOracle {
	return &HTTPOracle{
		httpClient: &http.Client{},
		url:        url,
		token:      token,
	}
}

func (o *HTTPOracle) Score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read oracle response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("oracle failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	labels, err := parseLabels(respBody)
	if err != nil {
		return 0, err
	}

	return topScore(labels)
}

func parseLabels(b []byte) ([]classLabel, error) {
	var nested [][]classLabel
	if err := json.Unmarshal(b, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	var flat []classLabel
	if err := json.Unmarshal(b, &flat); err == nil {
		return flat, nil
	}

	var single classLabel
	if err := json.Unmarshal(b, &single); err == nil && single.Label != "" {
		return []classLabel{single}, nil
	}

	return nil, fmt.Errorf("failed to parse oracle response: %s", string(b))
}

func topScore(labels []classLabel) (float64, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("oracle returned no labels")
	}
	best := labels[0].Score
	for _, l := range labels[1:] {
		if l.Score > best {
			best = l.Score
		}
	}
	return best, nil
}
