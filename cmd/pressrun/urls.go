package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/sitemap"
)

func handleURLs(cfg *config.Config, args []string) {
	if len(args) < 1 {
		printURLsUsage()
		os.Exit(exitUsage)
	}

	switch args[0] {
	case "sitemap":
		handleURLsSitemap(cfg, args[1:])
	case "feed":
		handleURLsFeed(cfg, args[1:])
	case "help", "--help", "-h":
		printURLsUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown urls command: %s\n\n", args[0])
		printURLsUsage()
		os.Exit(exitUsage)
	}
}

func handleURLsSitemap(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("urls sitemap", flag.ExitOnError)
	in := fs.String("in", "public/sitemap.xml", "Sitemap file to extract URLs from")
	out := fs.String("out", cfg.Push.URLFile, "Queue file to write")
	fs.Parse(args)

	urls, err := sitemap.ExtractURLs(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to extract URLs: %v\n", err)
		os.Exit(exitUsage)
	}
	writeURLs(*out, urls)
}

func handleURLsFeed(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("urls feed", flag.ExitOnError)
	feedURL := fs.String("url", "", "Blog RSS/Atom feed URL")
	out := fs.String("out", cfg.Push.URLFile, "Queue file to write")
	fs.Parse(args)

	if *feedURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -url is required\n")
		os.Exit(exitUsage)
	}

	urls, err := sitemap.FeedURLs(*feedURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch feed: %v\n", err)
		os.Exit(exitUsage)
	}
	writeURLs(*out, urls)
}

func writeURLs(out string, urls []string) {
	if err := sitemap.WriteURLFile(out, urls); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	fmt.Printf("✓ Wrote %d URLs to %s\n", len(urls), out)
}

func printURLsUsage() {
	fmt.Println("pressrun urls - Extract site URLs into the push queue file")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pressrun urls sitemap [-in <sitemap.xml>] [-out <file>]")
	fmt.Println("  pressrun urls feed -url <feed-url> [-out <file>]")
}
