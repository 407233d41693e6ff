// Package check verifies that queued URLs resolve to live pages before a
// push run, so submission quota is not spent on broken links.
package check

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageResult is the verification result for one URL.
type PageResult struct {
	URL    string
	Status int
	Title  string
	Err    error
}

// OK reports whether the page fetched cleanly and carries a title.
func (r PageResult) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK && r.Title != ""
}

// FetchTitle fetches a page and extracts its <title> text.
func FetchTitle(url string) (int, string, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pressrun/1.0 (blog publishing toolkit)")

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	return resp.StatusCode, title, nil
}

// Pages verifies each URL in order and returns one result per URL.
func Pages(urls []string) []PageResult {
	results := make([]PageResult, 0, len(urls))
	for _, url := range urls {
		status, title, err := FetchTitle(url)
		results = append(results, PageResult{
			URL:    url,
			Status: status,
			Title:  title,
			Err:    err,
		})
	}
	return results
}
