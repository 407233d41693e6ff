package generate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// PostCreator registers a new post with the static-site generator. The call
// is best-effort: its exit status is not part of the engine's success
// contract, so callers log failures and continue.
type PostCreator interface {
	CreatePost(ctx context.Context, path, title string) error
}

// HexoPostCreator shells out to `hexo new post` for each generated article.
type HexoPostCreator struct {
	// Command is the hexo binary name or path. Defaults to "hexo".
	Command string
	// Dir is the site root the command runs in. Empty means the current
	// directory.
	Dir string
}

// CreatePost invokes the create-post command with the item's path and title.
func (h *HexoPostCreator) CreatePost(ctx context.Context, path, title string) error {
	command := h.Command
	if command == "" {
		command = "hexo"
	}

	cmd := exec.CommandContext(ctx, command, "new", "post", "--path", path, title)
	cmd.Dir = h.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s new post %q: %v: %s",
			command, title, err, bytes.TrimSpace(out))
	}
	return nil
}
