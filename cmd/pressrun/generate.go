package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/generate"
	"github.com/pevans/pressrun/queue"
)

func handleGenerate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	datasetFile := fs.String("dataset-file", cfg.Generate.DatasetFile, "Path to the post dataset JSON file")
	promptFile := fs.String("prompt-file", cfg.Generate.PromptFile, "Path to the system prompt template")
	autoSave := fs.Bool("auto-save", false, "Save every generated article without confirmation")
	model := fs.String("model", cfg.Generate.Model, "Generation model name")
	siteDir := fs.String("site-dir", cfg.Generate.SiteDir, "Static site root for the create-post command")
	fs.Parse(args)

	if *datasetFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -dataset-file is required\n")
		os.Exit(exitUsage)
	}
	if *promptFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -prompt-file is required\n")
		os.Exit(exitUsage)
	}
	if cfg.Generate.APIKey == "" {
		fmt.Fprintf(os.Stderr, "Error: no API key configured (set OPENAI_API_KEY)\n")
		os.Exit(exitUsage)
	}

	promptData, err := os.ReadFile(*promptFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read prompt file: %v\n", err)
		os.Exit(exitUsage)
	}

	store, err := queue.NewDatasetStore(*datasetFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open dataset: %v\n", err)
		os.Exit(exitUsage)
	}
	defer store.Close()

	client := generate.NewChatClient(*model, cfg.Generate.APIKey, cfg.Generate.BaseURL)
	creator := &generate.HexoPostCreator{
		Command: cfg.Generate.NewPostCommand,
		Dir:     *siteDir,
	}

	var decider generate.DecisionProvider
	if !*autoSave {
		decider = generate.NewConsolePrompter(os.Stdin, os.Stdout)
	}

	sink := generate.NewSink(client, string(promptData), creator, decider)
	sink.SetImagePlaceholder(cfg.Generate.ImagePlaceholder)
	sink.SetFragmentEcho(func(fragment string) {
		fmt.Print(fragment)
	})

	// One item per batch: generation and confirmation are per article.
	runner := engine.NewRunner(store, sink, 1)

	recorder := startRecorder(cfg.Journal.DSN, "generate", *datasetFile)
	runner.SetObserver(recorder)

	sum, err := runner.Run(context.Background())
	if err != nil {
		recorder.closeAbandoned()
		if errors.Is(err, engine.ErrPersistence) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "The dataset keeps its pre-batch state; re-run to retry.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: generate run failed: %v\n", err)
		}
		os.Exit(exitUsage)
	}

	recorder.finish(sum)
	printSummary(sum)
	os.Exit(exitForState(sum.State))
}
