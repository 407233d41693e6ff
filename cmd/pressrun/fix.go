package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/post"
)

func handleFix(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("fix", flag.ExitOnError)
	dir := fs.String("dir", "source/_posts", "Directory of post sources to normalize")
	image := fs.String("image", cfg.Generate.ImagePlaceholder, "Placeholder path for rewritten image links")
	fs.Parse(args)

	changed, err := post.CleanDir(*dir, *image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: fix failed: %v\n", err)
		os.Exit(exitUsage)
	}

	if len(changed) == 0 {
		fmt.Println("No files needed changes.")
		return
	}
	for _, path := range changed {
		fmt.Printf("fixed %s\n", path)
	}
	fmt.Printf("✓ Rewrote %d files\n", len(changed))
}
