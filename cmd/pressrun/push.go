package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/push"
	"github.com/pevans/pressrun/queue"
)

func handlePush(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	file := fs.String("file", cfg.Push.URLFile, "Path to the newline-delimited URL queue file")
	site := fs.String("site", cfg.Push.Site, "Site identifier registered with the endpoint")
	token := fs.String("token", cfg.Push.Token, "Access token for the endpoint")
	endpoint := fs.String("endpoint", cfg.Push.Endpoint, "Push endpoint URL")
	batchSize := fs.Int("batch-size", cfg.Push.BatchSize, "URLs per request")
	fs.Parse(args)

	if *site == "" {
		fmt.Fprintf(os.Stderr, "Error: -site is required (or set PRESSRUN_PUSH_SITE)\n")
		os.Exit(exitUsage)
	}
	if *token == "" {
		fmt.Fprintf(os.Stderr, "Error: -token is required (or set PRESSRUN_PUSH_TOKEN)\n")
		os.Exit(exitUsage)
	}

	store, err := queue.NewLineStore(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open URL queue: %v\n", err)
		os.Exit(exitUsage)
	}
	defer store.Close()

	sink := push.NewSink(*endpoint, *site, *token)
	runner := engine.NewRunner(store, sink, *batchSize)

	recorder := startRecorder(cfg.Journal.DSN, "push", *file)
	runner.SetObserver(recorder)

	sum, err := runner.Run(context.Background())
	if err != nil {
		recorder.closeAbandoned()
		if errors.Is(err, engine.ErrPersistence) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "The queue file keeps its pre-batch state; re-run to retry.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: push run failed: %v\n", err)
		}
		os.Exit(exitUsage)
	}

	recorder.finish(sum)
	printSummary(sum)
	os.Exit(exitForState(sum.State))
}
