// Package main provides a performance benchmarking tool for the lootlens CLI.
// It generates synthetic drop logs of several sizes and measures execution times
// across report commands, running each test multiple times, treating the first
// successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - lootlens binary installed and available in PATH
//
// Usage: go run benchmark/main.go [log-base-dir]
//
//	log-base-dir: Directory where the synthetic log sets are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	LogSet      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	LogBase     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	LogSets     []string
	LogLines    map[string]int // lines per user log
	Users       int
	Commands    []string
}

// itemIDs are the ids drawn for synthetic drops.
var itemIDs = []int64{995, 4151, 11840, 1079, 20997, 12073, 526, 536, 1623, 561, 554, 555, 556, 557, 13307}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [log-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		LogBase:     os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     14,
		NoCacheRuns: 3,
		CacheRuns:   4,
		LogSets:     []string{"small", "medium", "large"},
		LogLines: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
		},
		Users:    4,
		Commands: []string{"summary", "items", "income", "heatmap"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := generateLogSets(config); err != nil {
		fmt.Printf("Failed to generate logs: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the lootlens binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("lootlens"); err != nil {
		return fmt.Errorf("lootlens binary not found in PATH")
	}
	return nil
}

// generateLogSets writes every log set that does not exist yet
func generateLogSets(config BenchmarkConfig) error {
	r := rand.New(rand.NewPCG(42, 7))
	for _, set := range config.LogSets {
		dir := filepath.Join(config.LogBase, set)
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("Reusing log set %s\n", set)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		fmt.Printf("Generating log set %s (%d users x %d lines)\n", set, config.Users, config.LogLines[set])
		for u := range config.Users {
			path := filepath.Join(dir, fmt.Sprintf("user%d.log", u+1))
			if err := os.WriteFile(path, []byte(syntheticLog(r, config.LogLines[set])), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// syntheticLog builds lines of "timestamp,item_id,quantity" a few seconds apart
func syntheticLog(r *rand.Rand, lines int) string {
	var b strings.Builder
	ts := time.Now().Add(-30 * 24 * time.Hour).Unix()
	for range lines {
		ts += 1 + r.Int64N(30)
		_, _ = fmt.Fprintf(&b, "%d,%d,%d\n", ts, itemIDs[r.IntN(len(itemIDs))], 1+r.Int64N(100))
	}
	return b.String()
}

// runBenchmarks executes all benchmark tests across configured log sets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d log sets, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.LogSets), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, set := range config.LogSets {
		fmt.Printf("Benchmarking %s\n", set)
		dir := filepath.Join(config.LogBase, set)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, set, dir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, set, dir, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, set)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dir, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("memory", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		LogSet:      set,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a lootlens command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dir, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--dir", dir, "--cache-backend", cacheBackend, "--workers", fmt.Sprint(config.Workers)}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("lootlens", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Report generated in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/lootlens_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"log_set", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.LogSet, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.LogSet, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
