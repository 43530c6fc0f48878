package anki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

func newTestClient(t *testing.T, handler func(call) (any, *string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c call
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		assert.Equal(t, 6, c.Version)

		result, errStr := handler(c)
		json.NewEncoder(w).Encode(map[string]any{
			"result": result,
			"error":  errStr,
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	client.httpClient = srv.Client()
	return client
}

func TestDeckNames(t *testing.T) {
	client := newTestClient(t, func(c call) (any, *string) {
		assert.Equal(t, "deckNames", c.Action)
		return []string{"Default", "Japanese::Vocab"}, nil
	})

	names, err := client.DeckNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Japanese::Vocab"}, names)
}

func TestModelFieldNames(t *testing.T) {
	client := newTestClient(t, func(c call) (any, *string) {
		assert.Equal(t, "modelFieldNames", c.Action)
		var params map[string]string
		require.NoError(t, json.Unmarshal(c.Params, &params))
		assert.Equal(t, "Basic", params["modelName"])
		return []string{"Front", "Back"}, nil
	})

	fields, err := client.ModelFieldNames(context.Background(), "Basic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Front", "Back"}, fields)
}

func TestAddNote(t *testing.T) {
	client := newTestClient(t, func(c call) (any, *string) {
		assert.Equal(t, "addNote", c.Action)
		var params struct {
			Note struct {
				DeckName  string            `json:"deckName"`
				ModelName string            `json:"modelName"`
				Fields    map[string]string `json:"fields"`
			} `json:"note"`
		}
		require.NoError(t, json.Unmarshal(c.Params, &params))
		assert.Equal(t, "Japanese", params.Note.DeckName)
		assert.Equal(t, "ねこ", params.Note.Fields["Reading"])
		return int64(1654321), nil
	})

	id, err := client.AddNote(context.Background(), Note{
		Deck:   "Japanese",
		Model:  "Basic",
		Fields: map[string]string{"Front": "猫", "Reading": "ねこ"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1654321), id)
}

func TestAnkiError(t *testing.T) {
	msg := "deck was not found: Nope"
	client := newTestClient(t, func(c call) (any, *string) {
		return nil, &msg
	})

	_, err := client.AddNote(context.Background(), Note{Deck: "Nope", Model: "Basic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck was not found")
}

func TestPingRejectsOldVersion(t *testing.T) {
	client := newTestClient(t, func(c call) (any, *string) {
		assert.Equal(t, "version", c.Action)
		return 4, nil
	})

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too old")
}

func TestUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here
	err := client.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}
