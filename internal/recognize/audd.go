package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.audd.io/"

// Result is an identified track.
type Result struct {
	Title       string
	Artist      string
	Album       string
	ReleaseDate string
	SongLink    string

	artworkURL string
}

// ArtworkURL returns the cover image URL sized w×h, or "" when none exists.
// AudD hands back Apple Music artwork templates with {w}/{h} placeholders.
func (r *Result) ArtworkURL(w, h int) string {
	if r.artworkURL == "" {
		return ""
	}
	url := strings.ReplaceAll(r.artworkURL, "{w}", strconv.Itoa(w))
	return strings.ReplaceAll(url, "{h}", strconv.Itoa(h))
}

type auddResponse struct {
	Status string `json:"status"`
	Error  *struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"error"`
	Result *struct {
		Title       string `json:"title"`
		Artist      string `json:"artist"`
		Album       string `json:"album"`
		ReleaseDate string `json:"release_date"`
		SongLink    string `json:"song_link"`
		AppleMusic  *struct {
			Artwork *struct {
				URL string `json:"url"`
			} `json:"artwork"`
		} `json:"apple_music"`
	} `json:"result"`
}

// Client talks to the AudD fingerprint-recognition service.
type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Client for the given API token. Requests are throttled
// to stay inside the AudD request quota.
func NewClient(apiToken string) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  defaultBaseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Recognize submits the sample file and returns the identified track.
// A well-formed response without a result yields (nil, nil): the service
// simply did not recognize the track, which is an outcome, not an error.
func (c *Client) Recognize(ctx context.Context, samplePath string) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, contentType, err := c.buildUpload(samplePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("audd request error: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audd request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audd responded with %s", resp.Status)
	}

	var parsed auddResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("audd response decode error: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("audd error %d: %s", parsed.Error.ErrorCode, parsed.Error.ErrorMessage)
	}
	if parsed.Result == nil {
		return nil, nil
	}

	res := &Result{
		Title:       parsed.Result.Title,
		Artist:      parsed.Result.Artist,
		Album:       parsed.Result.Album,
		ReleaseDate: parsed.Result.ReleaseDate,
		SongLink:    parsed.Result.SongLink,
	}
	if am := parsed.Result.AppleMusic; am != nil && am.Artwork != nil {
		res.artworkURL = am.Artwork.URL
	}
	return res, nil
}

// buildUpload assembles the multipart form: api_token + the sample file.
func (c *Client) buildUpload(samplePath string) (io.Reader, string, error) {
	file, err := os.Open(samplePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open sample: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("api_token", c.apiToken); err != nil {
		return nil, "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(samplePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read sample: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}
