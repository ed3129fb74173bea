// Package client is the HTTP client of the card API used by viewers. It does
// not retry; a failed fetch is terminal for the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sgksm85/beauty-clinic-message-card/internal/comm"
)

// ErrNotFound is returned for unknown and deactivated cards alike.
var ErrNotFound = errors.New("card not found or inactive")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) GetCard(ctx context.Context, id string) (*comm.CardData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/cards/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope comm.Response
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		var card comm.CardData
		if err := json.Unmarshal(envelope.Data, &card); err != nil {
			return nil, fmt.Errorf("failed to decode card: %w", err)
		}
		return &card, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("card service returned %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}
}

func (c *Client) CreateCard(ctx context.Context, in comm.CreateCardRequest) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cards", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("card service returned %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var envelope comm.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var created comm.CreateCardResponse
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		return "", fmt.Errorf("failed to decode card id: %w", err)
	}

	return created.ID, nil
}

// errorMessage extracts a readable message from an error response. Not every
// failure body is the JSON envelope: the throttling middleware answers in
// plain text, so fall back to the raw body.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var envelope comm.Response
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}

	return strings.TrimSpace(string(raw))
}
