// Package audio materializes pronunciation clips into a local media
// directory. The upstream CDN never 404s for a missing word; it serves a
// fixed "no audio available" placeholder clip instead, which is recognized
// by hash and treated as a miss.
package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultBaseURL = "https://assets.languagepod101.com/dictionary/japanese/audiomp3.php"

// SHA-256 of the placeholder clip the CDN returns for unknown words.
const placeholderSHA256 = "ae6398b5a27bc8c0a771df6c907ade794be15518174773c58c7c7ddd17098906"

// ErrUnavailable is returned for transport-level trouble (timeouts, non-200
// statuses). A word the CDN has no clip for is not an error; Ensure returns
// an empty filename for that.
var ErrUnavailable = errors.New("audio source unavailable")

// Store fetches clips on demand and keeps them under a media directory.
type Store struct {
	mediaDir       string
	baseURL        string
	placeholderSum string
	httpClient     *http.Client
}

func NewStore(mediaDir string) *Store {
	return &Store{
		mediaDir:       mediaDir,
		baseURL:        defaultBaseURL,
		placeholderSum: placeholderSHA256,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ensure returns the media filename for the given reading/kanji pair,
// downloading it first if it is not already materialized. An empty filename
// with a nil error means the CDN has no clip for this word.
func (s *Store) Ensure(ctx context.Context, kana, kanji string) (string, error) {
	if kana == "" {
		return "", nil
	}

	filename := clipFilename(kana, kanji)
	path := filepath.Join(s.mediaDir, filename)
	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	body, err := s.fetch(ctx, kana, kanji)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil // placeholder clip, no real audio
	}

	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("creating media dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}

	return filename, nil
}

func (s *Store) fetch(ctx context.Context, kana, kanji string) ([]byte, error) {
	q := url.Values{}
	q.Set("kana", kana)
	if kanji != "" {
		q.Set("kanji", kanji)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	sum := sha256.Sum256(body)
	if hex.EncodeToString(sum[:]) == s.placeholderSum {
		return nil, nil
	}

	return body, nil
}

// clipFilename builds a stable, filesystem-safe name for a clip.
func clipFilename(kana, kanji string) string {
	name := kana
	if kanji != "" && kanji != kana {
		name = kana + "_" + kanji
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
	return name + ".mp3"
}
