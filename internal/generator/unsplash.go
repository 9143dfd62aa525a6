package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUnsplashURL = "https://api.unsplash.com"

// UnsplashClient searches photos on Unsplash
type UnsplashClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

// NewUnsplashClient creates a client. baseURL defaults to the public API.
func NewUnsplashClient(accessKey, baseURL string) *UnsplashClient {
	if baseURL == "" {
		baseURL = defaultUnsplashURL
	}
	return &UnsplashClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Small   string `json:"small"`
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the small URL of the first photo matching query
func (c *UnsplashClient) SearchImage(ctx context.Context, query string) (*string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: building request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: sending request: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("unsplash: unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out unsplashSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unsplash: decoding response: %w", err)
	}
	if len(out.Results) == 0 || out.Results[0].URLs.Small == "" {
		return nil, nil
	}
	small := out.Results[0].URLs.Small
	return &small, nil
}
