package main

import (
	"fmt"
	"os"

	"github.com/pevans/pressrun/config"
	"github.com/pevans/pressrun/engine"
)

// Exit codes per terminal state. Drained and quota exhaustion are expected
// outcomes; a sink error or operator abort leaves pending work behind.
const (
	exitOK            = 0
	exitUsage         = 1
	exitSinkError     = 3
	exitOperatorAbort = 4
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(exitUsage)
	}

	switch os.Args[1] {
	case "push":
		handlePush(cfg, os.Args[2:])
	case "generate":
		handleGenerate(cfg, os.Args[2:])
	case "dataset":
		handleDataset(os.Args[2:])
	case "urls":
		handleURLs(cfg, os.Args[2:])
	case "fix":
		handleFix(cfg, os.Args[2:])
	case "check":
		handleCheck(cfg, os.Args[2:])
	case "runs":
		handleRuns(cfg, os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(exitUsage)
	}
}

// loadConfig honors PRESSRUN_CONFIG for an explicit config file path,
// otherwise reads ~/.pressrun/config.yaml if it exists.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("PRESSRUN_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// exitForState maps a terminal run state to the process exit code.
func exitForState(state engine.State) int {
	switch state {
	case engine.StateDrained, engine.StateQuotaExhausted:
		return exitOK
	case engine.StateSinkError:
		return exitSinkError
	case engine.StateOperatorAborted:
		return exitOperatorAbort
	default:
		return exitUsage
	}
}

func printUsage() {
	fmt.Println("pressrun - blog publishing toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pressrun <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  push       Submit queued URLs to the indexing endpoint")
	fmt.Println("  generate   Generate queued articles via the text backend")
	fmt.Println("  dataset    Build the post dataset from a catalog file")
	fmt.Println("  urls       Extract site URLs into the push queue file")
	fmt.Println("  fix        Normalize generated articles in a directory")
	fmt.Println("  check      Audit front matter or live page availability")
	fmt.Println("  runs       List recorded submission runs")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PRESSRUN_CONFIG       Path to config file (default: ~/.pressrun/config.yaml)")
	fmt.Println("  PRESSRUN_PUSH_SITE    Site identifier for the push endpoint")
	fmt.Println("  PRESSRUN_PUSH_TOKEN   Access token for the push endpoint")
	fmt.Println("  OPENAI_API_KEY        API key for the text-generation backend")
	fmt.Println()
	fmt.Println("Exit codes: 0 drained or quota exhausted, 3 sink error,")
	fmt.Println("4 operator abort, 1 usage or internal error.")
}
