package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fencetrack/fencetrack/internal/config"
	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/fetch"
	"github.com/fencetrack/fencetrack/internal/repository/postgres"
	"github.com/fencetrack/fencetrack/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		runCmd()
	case "gaps":
		gapsCmd()
	case "ingest":
		ingestCmd(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Reconcile - one-shot bracket reconciliation

USAGE:
  reconcile <command> [options]

COMMANDS:
  run       Execute one full reconciliation pass over every competition
  gaps      Print the current coverage worklist without fetching anything
  ingest    Reconcile a single raw fragment from a JSON file
  help      Show this help message

ENVIRONMENT:
  DATABASE_URL       Postgres connection string
  FETCHER_BASE_URL   Results source base URL
  RUN_CONCURRENCY    Competitions processed in parallel (default 4)`)
}

func newServices() *service.Services {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	repos := postgres.NewRepositories(db)
	uow := postgres.NewUnitOfWork(db)
	fetcher := fetch.NewHTTPFetcher(cfg.FetcherBaseURL, cfg.FetchTimeout)

	return service.NewServices(repos, uow, fetcher, nil, cfg)
}

// runCmd executes one full reconciliation pass and prints the report.
// Ctrl-C cancels between events; the event in flight still commits whole.
func runCmd() {
	services := newServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("cancelling run...")
		cancel()
	}()

	report, err := services.Run.Run(ctx)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	printReport(report)
	if report.StructuralErrors > 0 || report.MergeConflicts > 0 {
		os.Exit(1)
	}
}

func gapsCmd() {
	services := newServices()

	gaps, err := services.Run.Gaps(context.Background())
	if err != nil {
		log.Fatalf("failed to compute gaps: %v", err)
	}

	if len(gaps) == 0 {
		fmt.Println("No coverage gaps.")
		return
	}
	for _, gap := range gaps {
		fmt.Printf("%s/%s/%s: %v\n", gap.CompKey, gap.EventKey, gap.SubEventKey, gap.Missing)
	}
}

func ingestCmd(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: reconcile ingest <fragment.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("failed to read %s: %v", args[0], err)
	}

	var raw domain.RawFragment
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Fatalf("failed to parse fragment: %v", err)
	}

	services := newServices()
	outcome, err := services.Ingest.IngestFragment(context.Background(), &raw)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	out, _ := json.MarshalIndent(outcome, "", "  ")
	fmt.Println(string(out))
}

func printReport(report *domain.RunReport) {
	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("  competitions:       %d\n", report.Competitions)
	fmt.Printf("  events processed:   %d\n", report.EventsProcessed)
	fmt.Printf("  bouts written:      %d\n", report.BoutsWritten)
	fmt.Printf("  structural errors:  %d\n", report.StructuralErrors)
	fmt.Printf("  merge conflicts:    %d\n", report.MergeConflicts)
	fmt.Printf("  transport failures: %d\n", report.TransportFailures)
	for _, key := range report.AffectedEvents {
		fmt.Printf("  affected: %s\n", key)
	}
	if len(report.Gaps) > 0 {
		fmt.Printf("  remaining gaps: %d\n", len(report.Gaps))
	}
}
