package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeClip = []byte("ID3 not really an mp3 but close enough")

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewStore(t.TempDir())
	s.baseURL = srv.URL
	s.httpClient = srv.Client()
	return s
}

func TestEnsureDownloadsAndCaches(t *testing.T) {
	hits := 0
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "ねこ", r.URL.Query().Get("kana"))
		assert.Equal(t, "猫", r.URL.Query().Get("kanji"))
		w.Write(fakeClip)
	})

	name, err := s.Ensure(context.Background(), "ねこ", "猫")
	require.NoError(t, err)
	assert.Equal(t, "ねこ_猫.mp3", name)

	data, err := os.ReadFile(filepath.Join(s.mediaDir, name))
	require.NoError(t, err)
	assert.Equal(t, fakeClip, data)

	// Second call is served from disk.
	again, err := s.Ensure(context.Background(), "ねこ", "猫")
	require.NoError(t, err)
	assert.Equal(t, name, again)
	assert.Equal(t, 1, hits)
}

func TestEnsurePlaceholderIsAMiss(t *testing.T) {
	placeholder := []byte("the not-available clip")
	sum := sha256.Sum256(placeholder)

	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(placeholder)
	})
	s.placeholderSum = hex.EncodeToString(sum[:])

	name, err := s.Ensure(context.Background(), "ないおと", "")
	require.NoError(t, err)
	assert.Empty(t, name)

	entries, err := os.ReadDir(s.mediaDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "placeholder must not be written to media dir")
}

func TestEnsureNotFoundIsAMiss(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	name, err := s.Ensure(context.Background(), "ないおと", "")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestEnsureServerErrorIsUnavailable(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.Ensure(context.Background(), "ねこ", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEnsureEmptyKana(t *testing.T) {
	s := NewStore(t.TempDir())
	name, err := s.Ensure(context.Background(), "", "猫")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestClipFilenameSanitizes(t *testing.T) {
	assert.Equal(t, "ねこ.mp3", clipFilename("ねこ", "ねこ"))
	assert.Equal(t, "か_き_下_き.mp3", clipFilename("か き", "下/き"))
}
