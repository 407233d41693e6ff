package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/pressrun/dataset"
)

func handleDataset(args []string) {
	if len(args) < 1 {
		printDatasetUsage()
		os.Exit(exitUsage)
	}

	switch args[0] {
	case "build":
		handleDatasetBuild(args[1:])
	case "help", "--help", "-h":
		printDatasetUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown dataset command: %s\n\n", args[0])
		printDatasetUsage()
		os.Exit(exitUsage)
	}
}

func handleDatasetBuild(args []string) {
	fs := flag.NewFlagSet("dataset build", flag.ExitOnError)
	catalog := fs.String("catalog", "", "Catalog JSON file of categories and titles")
	out := fs.String("out", "", "Output dataset file path")
	postDir := fs.String("post-dir", dataset.DefaultPostDir, "Directory generated posts are written to")
	fs.Parse(args)

	if *catalog == "" {
		fmt.Fprintf(os.Stderr, "Error: -catalog is required\n")
		os.Exit(exitUsage)
	}
	if *out == "" {
		fmt.Fprintf(os.Stderr, "Error: -out is required\n")
		os.Exit(exitUsage)
	}

	records, err := dataset.BuildRecords(*catalog, *postDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build dataset: %v\n", err)
		os.Exit(exitUsage)
	}
	if err := dataset.WriteDataset(*out, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write dataset: %v\n", err)
		os.Exit(exitUsage)
	}

	fmt.Printf("✓ Wrote %d records to %s\n", len(records), *out)
}

func printDatasetUsage() {
	fmt.Println("pressrun dataset - Build the post dataset")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pressrun dataset build -catalog <file> -out <file> [-post-dir <dir>]")
}
