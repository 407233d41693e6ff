package generate

import "fmt"

// SystemPrompt prefixes the base prompt with the item's default category so
// generated front matter lands in the right section of the site.
func SystemPrompt(base, category string) string {
	if category == "" {
		return base
	}
	return fmt.Sprintf("Set the default post category to %s. %s", category, base)
}

// UserPrompt asks the backend for one article by title.
func UserPrompt(title string) string {
	return "Write the article: " + title
}
