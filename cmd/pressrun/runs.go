package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/journal"
)

func handleRuns(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum runs to list (0 for all)")
	fs.Parse(args)

	store, err := journal.NewStore(cfg.Journal.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open run journal: %v\n", err)
		os.Exit(exitUsage)
	}
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(exitUsage)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-36s %-9s %-17s %5s %5s %5s  %s\n",
		"ID", "KIND", "STATE", "DONE", "LEFT", "SKIP", "STARTED")
	fmt.Println("--------------------------------------------------------------------------------------------")
	for _, run := range runs {
		fmt.Printf("%-36s %-9s %-17s %5d %5d %5d  %s\n",
			run.RunID.String(),
			run.Kind,
			run.State,
			run.Completed,
			run.Remaining,
			run.Skipped,
			run.StartedAt.Format(time.RFC3339),
		)
	}
}
