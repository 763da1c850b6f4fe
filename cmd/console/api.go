package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/item"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DayStatus mirrors the API's day status response.
type DayStatus struct {
	State   *daycycle.DailyActionState                         `json:"state"`
	Results map[daycycle.Category]*daycycle.PlayerActionResult `json:"results"`
	Pending int                                                `json:"pending"`
}

// FamilyState mirrors the API's family response.
type FamilyState struct {
	Survivors []*survivor.Survivor `json:"survivors"`
	Resources map[string]int       `json:"resources"`
}

type submitPayload struct {
	Category daycycle.Category `json:"category"`
	Input    string            `json:"input"`
	Items    []item.Item       `json:"items,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func prepareDay(client *http.Client, baseURL string, day int) (*daycycle.DailyActionState, error) {
	jsonData, err := json.Marshal(map[string]int{"day": day})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/day", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to prepare day")
	}

	var state daycycle.DailyActionState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to parse day state response: %w", err)
	}
	return &state, nil
}

func getDayStatus(client *http.Client, baseURL string) (*DayStatus, error) {
	resp, err := client.Get(baseURL + "/v1/day")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get day status")
	}

	var status DayStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse day status response: %w", err)
	}
	return &status, nil
}

func submitCategory(client *http.Client, baseURL string, category daycycle.Category, input string, items []item.Item) error {
	jsonData, err := json.Marshal(submitPayload{Category: category, Input: input, Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/day/submit", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		return apiError(resp.StatusCode, body, "submission rejected")
	}
	return nil
}

func getFamily(client *http.Client, baseURL string) (*FamilyState, error) {
	resp, err := client.Get(baseURL + "/v1/family")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get family state")
	}

	var family FamilyState
	if err := json.Unmarshal(body, &family); err != nil {
		return nil, fmt.Errorf("failed to parse family response: %w", err)
	}
	return &family, nil
}

func apiError(status int, body []byte, context string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s: %s", context, errorResp.Error)
}
