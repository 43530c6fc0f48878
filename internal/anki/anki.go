// Package anki talks to a running Anki instance through the AnkiConnect
// add-on's localhost JSON endpoint.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultURL = "http://127.0.0.1:8765"

const connectVersion = 6

// ErrUnreachable is returned when AnkiConnect is not listening, which almost
// always means Anki itself is not running.
var ErrUnreachable = errors.New("cannot reach AnkiConnect; is Anki running?")

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

func (c *Client) invoke(ctx context.Context, action string, params any, result any) error {
	body, err := json.Marshal(request{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki %s: unexpected status code %d", action, resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if r.Error != nil {
		return fmt.Errorf("anki %s: %s", action, *r.Error)
	}

	if result != nil {
		if err := json.Unmarshal(r.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", action, err)
		}
	}
	return nil
}

// Ping verifies AnkiConnect is up and speaks the expected API version.
func (c *Client) Ping(ctx context.Context) error {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return err
	}
	if version < connectVersion {
		return fmt.Errorf("AnkiConnect version %d too old, need %d", version, connectVersion)
	}
	return nil
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "deckNames", nil, &names)
	return names, err
}

func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "modelNames", nil, &names)
	return names, err
}

func (c *Client) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "modelFieldNames", map[string]string{"modelName": model}, &names)
	return names, err
}

// Note is one record to persist. Fields maps note-type field names to values.
type Note struct {
	Deck   string
	Model  string
	Fields map[string]string
}

// AddNote persists a note and returns its id.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	params := map[string]any{
		"note": map[string]any{
			"deckName":  note.Deck,
			"modelName": note.Model,
			"fields":    note.Fields,
			"options": map[string]any{
				"allowDuplicate": false,
			},
		},
	}
	var id int64
	if err := c.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// StoreMediaFile copies a local file into Anki's media collection under the
// given name and returns the stored name.
func (c *Client) StoreMediaFile(ctx context.Context, name, path string) (string, error) {
	params := map[string]string{
		"filename": name,
		"path":     path,
	}
	var stored string
	if err := c.invoke(ctx, "storeMediaFile", params, &stored); err != nil {
		return "", err
	}
	return stored, nil
}
