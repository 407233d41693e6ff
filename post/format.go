// Package post normalizes generated blog articles so they render cleanly as
// static-site posts: stray markdown fences around the whole document, unquoted
// front-matter titles, raw quotes in descriptions, and image links pointing at
// assets that were never generated.
package post

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var imageLinkPattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Clean normalizes one generated article. If imagePlaceholder is non-empty,
// every markdown image link is rewritten to point at it.
func Clean(article, imagePlaceholder string) string {
	lines := strings.Split(article, "\n")

	// Generation backends sometimes wrap the whole document in a
	// ```markdown fence; unwrap it.
	if len(lines) >= 2 &&
		strings.TrimSpace(lines[0]) == "```markdown" &&
		strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[1 : len(lines)-1]
	}

	if len(lines) > 1 && strings.HasPrefix(lines[1], "title: ") {
		title := strings.TrimSpace(lines[1][len("title: "):])
		if !(strings.HasPrefix(title, `"`) && strings.HasSuffix(title, `"`)) {
			lines[1] = fmt.Sprintf("title: %q", title)
		}
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "description: ") {
			description := strings.TrimSpace(line[len("description: "):])
			if strings.Contains(description, `"`) {
				description = strings.ReplaceAll(description, `"`, "&quot;")
				lines[i] = fmt.Sprintf(`description: "%s"`, description)
			}
		}
	}

	if imagePlaceholder != "" {
		for i, line := range lines {
			lines[i] = imageLinkPattern.ReplaceAllString(line, "![${1}]("+imagePlaceholder+")")
		}
	}

	return strings.Join(lines, "\n")
}

// CleanDir applies Clean to every .md file under dir, rewriting files whose
// content changed. Returns the paths that were rewritten.
func CleanDir(dir, imagePlaceholder string) ([]string, error) {
	var changed []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		cleaned := Clean(string(data), imagePlaceholder)
		if cleaned == string(data) {
			return nil
		}
		if err := os.WriteFile(path, []byte(cleaned), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		changed = append(changed, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// CheckFrontMatter walks dir and returns the .md files whose front matter is
// not closed by a second "---" line.
func CheckFrontMatter(dir string) ([]string, error) {
	var problems []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		delimiters := 0
		for _, line := range strings.Split(string(data), "\n") {
			if line == "---" {
				delimiters++
			}
		}
		if delimiters < 2 {
			problems = append(problems, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}
