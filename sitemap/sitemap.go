// Package sitemap extracts site URLs for the push queue, either from a
// generated sitemap.xml or from the blog's RSS/Atom feed.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
)

// urlset matches the sitemap.org schema; only <loc> values are needed.
type urlset struct {
	Entries []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// ExtractURLs parses a sitemap.xml file and returns its <loc> values in
// document order.
func ExtractURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}

	var set urlset
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", path, err)
	}

	urls := make([]string, 0, len(set.Entries))
	for _, entry := range set.Entries {
		loc := strings.TrimSpace(entry.Loc)
		if loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// FeedURLs fetches the blog's RSS or Atom feed and returns the item links in
// feed order. gofeed detects and normalizes both formats.
func FeedURLs(feedURL string) ([]string, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}

// WriteURLFile writes urls as a newline-delimited queue file for the push
// run.
func WriteURLFile(path string, urls []string) error {
	var builder strings.Builder
	for _, url := range urls {
		builder.WriteString(url)
		builder.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("write URL file %s: %w", path, err)
	}
	return nil
}
