package tools

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
)

const (
	SearchToolName        = "search_internet"
	DefaultSearchEndpoint = "https://google.serper.dev/search"
	defaultSearchResults  = 10
	defaultSearchTimeout  = 30 * time.Second
)

// SearchResult is one organic web result
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"link"`
}

// SearchTool queries the Serper Google search API
type SearchTool struct {
	APIKey     string
	Endpoint   string
	NumResults int
	Client     *http.Client
}

// NewSearchTool creates a search tool with the given Serper API key
func NewSearchTool(apiKey string) *SearchTool {
	return &SearchTool{
		APIKey:     apiKey,
		Endpoint:   DefaultSearchEndpoint,
		NumResults: defaultSearchResults,
		Client:     &http.Client{Timeout: defaultSearchTimeout},
	}
}

func (s *SearchTool) Name() string {
	return SearchToolName
}

func (s *SearchTool) Description() string {
	return "Search the internet for market context, industry benchmarks and recent news. Input is the search query."
}

func (s *SearchTool) Execute(ctx context.Context, input string) (string, error) {
	results, err := s.Search(ctx, input)
	if err != nil {
		return "", err
	}
	return FormatSearchResults(results), nil
}

// Search returns the organic results for query, in ranking order
func (s *SearchTool) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}
	if s.APIKey == "" {
		return nil, &SearchUnavailableError{Query: query, Reason: "no API key configured (set SERPER_API_KEY)"}
	}

	num := s.NumResults
	if num <= 0 {
		num = defaultSearchResults
	}
	body, _ := json.Marshal(map[string]interface{}{
		"q":   query,
		"num": num,
	})

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultSearchEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &SearchUnavailableError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		reason := fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if resp.StatusCode == http.StatusTooManyRequests {
			reason = "quota exceeded"
		}
		return nil, &SearchUnavailableError{Query: query, Reason: reason}
	}

	var result struct {
		Organic []SearchResult `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &SearchUnavailableError{Query: query, Reason: "malformed response", Err: err}
	}

	return result.Organic, nil
}

// FormatSearchResults renders results as text for the LLM
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return sb.String()
}
