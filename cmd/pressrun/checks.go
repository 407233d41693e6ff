package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/pressrun/check"
	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/post"
)

func handleCheck(cfg *config.Config, args []string) {
	if len(args) < 1 {
		printCheckUsage()
		os.Exit(exitUsage)
	}

	switch args[0] {
	case "frontmatter":
		handleCheckFrontMatter(args[1:])
	case "live":
		handleCheckLive(cfg, args[1:])
	case "help", "--help", "-h":
		printCheckUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown check command: %s\n\n", args[0])
		printCheckUsage()
		os.Exit(exitUsage)
	}
}

func handleCheckFrontMatter(args []string) {
	fs := flag.NewFlagSet("check frontmatter", flag.ExitOnError)
	dir := fs.String("dir", "source/_posts", "Directory of post sources to audit")
	fs.Parse(args)

	problems, err := post.CheckFrontMatter(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: front matter audit failed: %v\n", err)
		os.Exit(exitUsage)
	}

	if len(problems) == 0 {
		fmt.Println("All post files close their front matter.")
		return
	}
	fmt.Println("Files with unclosed front matter:")
	for _, path := range problems {
		fmt.Printf("  %s\n", path)
	}
	os.Exit(exitUsage)
}

func handleCheckLive(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("check live", flag.ExitOnError)
	file := fs.String("file", cfg.Push.URLFile, "URL queue file to verify")
	fs.Parse(args)

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read URL file: %v\n", err)
		os.Exit(exitUsage)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}

	failures := 0
	for _, result := range check.Pages(urls) {
		switch {
		case result.Err != nil:
			failures++
			fmt.Printf("FAIL %s: %v\n", result.URL, result.Err)
		case !result.OK():
			failures++
			fmt.Printf("FAIL %s: status %d, title %q\n", result.URL, result.Status, result.Title)
		default:
			fmt.Printf("ok   %s: %s\n", result.URL, result.Title)
		}
	}

	fmt.Printf("\n%d of %d URLs verified\n", len(urls)-failures, len(urls))
	if failures > 0 {
		os.Exit(exitUsage)
	}
}

func printCheckUsage() {
	fmt.Println("pressrun check - Audit post sources or live pages")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pressrun check frontmatter [-dir <dir>]")
	fmt.Println("  pressrun check live [-file <url-file>]")
}
