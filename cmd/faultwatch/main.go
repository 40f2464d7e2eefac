package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ghalamif/FaultWatch"
)

const defaultConfigPath = "./data/config.yaml"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: .env not loaded: %v", err)
	}

	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = runCommand(args)
	case "validate":
		err = validateCommand(args)
	case "check":
		err = checkCommand(args)
	case "stats":
		err = statsCommand(args)
	case "help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("faultwatch %s: %v", cmd, err)
	}
}

type watchFlags struct {
	config   *string
	input    *string
	output   *string
	interval *time.Duration
}

func bindWatchFlags(fs *flag.FlagSet) watchFlags {
	return watchFlags{
		config:   fs.String("config", "", "Path to configuration file (default "+defaultConfigPath+" when present)"),
		input:    fs.String("input", "", "Sensor log to watch"),
		output:   fs.String("output", "", "Annotated fault log to write"),
		interval: fs.Duration("interval", 0, "Delay between polling cycles"),
	}
}

// load resolves the configuration: file, then environment, then flags.
func (w watchFlags) load() (*faultwatch.Config, error) {
	path := *w.config
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg, err := faultwatch.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if *w.input != "" {
		cfg.Watch.InputPath = *w.input
	}
	if *w.output != "" {
		cfg.Watch.OutputPath = *w.output
	}
	if *w.interval != 0 {
		cfg.Watch.PollInterval = *w.interval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	wf := bindWatchFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := wf.load()
	if err != nil {
		return err
	}
	flow, err := faultwatch.ConfFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := faultwatch.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

// checkCommand runs a single cycle and exits non-zero unless the output was
// written or there was nothing to classify.
func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	wf := bindWatchFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := wf.load()
	if err != nil {
		return err
	}
	cfg.Metrics.Disabled = true

	rt, err := faultwatch.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Shutdown(context.Background())

	res := rt.RunOnce(context.Background())
	fmt.Printf("outcome=%s rows=%d faulty=%d duration=%s\n", res.Outcome, res.Rows, res.Faulty, res.Duration)
	for label, n := range res.Labels {
		fmt.Printf("  %s: %d\n", label, n)
	}

	switch res.Outcome {
	case faultwatch.OutcomeWritten, faultwatch.OutcomeEmptyDataset:
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("cycle ended with %s", res.Outcome)
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		`faultwatch_cycles_total{outcome="written"}`: 0,
		"faultwatch_rows_classified_total":           0,
		"faultwatch_dataset_rows":                    0,
		"faultwatch_faulty_rows":                     0,
		"faultwatch_mirror_failures_total":           0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(strings.TrimPrefix(line, key+" "), "%g", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] cycles_written=%.0f rows_classified=%.0f rows=%.0f faulty=%.0f mirror_failures=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets[`faultwatch_cycles_total{outcome="written"}`],
		targets["faultwatch_rows_classified_total"],
		targets["faultwatch_dataset_rows"],
		targets["faultwatch_faulty_rows"],
		targets["faultwatch_mirror_failures_total"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`FaultWatch CLI

Usage:
  faultwatch <command> [flags]

Commands:
  run        Watch the sensor log and rewrite the fault log every cycle (default)
  validate   Load and validate a config file without starting the watcher
  check      Run a single cycle and report its outcome
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  faultwatch run -config ./data/config.yaml
  faultwatch run -input data/sensor_log.csv -output data/fault_log.csv -interval 2s
  faultwatch check -input data/sensor_log.csv
  faultwatch stats -url http://localhost:9100/metrics -interval 1s
`)
}
