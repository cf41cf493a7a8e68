package price

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/cmd/util"
	"github.com/ValentinKolb/pricerproxy/proxy/client"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"testing"
	"time"
)

var (
	benchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Throughput test for a running proxy",
		Long:    "Runs request/response and pipelined benchmarks. Every worker uses its own connection, which pairs it with its own pricer connection.",
		RunE:    runBench,
		PreRunE: processBenchConfig,
	}
	benchConnections = 4
	benchBatchSize   = 32
)

func init() {
	key := "connections"
	benchCmd.Flags().Int(key, 4, util.WrapString("Number of parallel connections per CPU"))
	key = "batch"
	benchCmd.Flags().Int(key, 32, util.WrapString("How many requests the pipelined test sends before reading results"))
	key = "csv"
	benchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchConnections = viper.GetInt("connections")
	benchBatchSize = viper.GetInt("batch")
	if benchConnections < 1 || benchBatchSize < 1 {
		return fmt.Errorf("connections and batch must be at least 1")
	}
	return nil
}

func runBench(_ *cobra.Command, _ []string) error {
	config := util.GetClientConfig()
	req := requestFromFlags()

	fmt.Println("Throughput test for the pricing proxy")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Connections: %d per CPU\n", benchConnections)
	fmt.Printf("Batch Size:  %d\n", benchBatchSize)
	fmt.Println()

	// Fail early if the proxy is not reachable
	probe, err := client.Dial(config.Endpoint, config.Timeout())
	if err != nil {
		return err
	}
	if _, err := probe.Price(req); err != nil {
		_ = probe.Close()
		return fmt.Errorf("probe request failed: %w", err)
	}
	_ = probe.Close()

	fmt.Println("starting tests...")

	results := make(map[string]testing.BenchmarkResult)

	// One request in flight per connection
	priceResult := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchConnections)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			c, err := client.Dial(config.Endpoint, config.Timeout())
			if err != nil {
				log.Printf("(price) - error connecting: %v\n", err)
				return
			}
			defer c.Close()

			for pb.Next() {
				if _, err := c.Price(req); err != nil {
					log.Printf("(price) - error pricing: %v\n", err)
				}
			}
		})
	})

	results["price"] = priceResult
	printResult("price", priceResult, 1)

	// A whole batch in flight per connection, one op is one batch
	batch := make([]client.Request, benchBatchSize)
	for i := range batch {
		batch[i] = req
	}

	batchResult := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchConnections)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			c, err := client.Dial(config.Endpoint, config.Timeout())
			if err != nil {
				log.Printf("(batch) - error connecting: %v\n", err)
				return
			}
			defer c.Close()

			for pb.Next() {
				if _, err := c.PriceBatch(batch); err != nil {
					log.Printf("(batch) - error pricing: %v\n", err)
				}
			}
		})
	})

	results["batch"] = batchResult
	printResult("batch", batchResult, benchBatchSize)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return err
		}
	}

	return nil
}

// printResult prints the result of a benchmark test in a formatted way.
// perOp is the number of requests covered by a single op.
func printResult(test string, result testing.BenchmarkResult, perOp int) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerReq := math.Max(float64(result.NsPerOp())/float64(perOp), 1) // prevent division by zero
	reqPerSec := 1.0 / (nsPerReq / 1e9)

	fmt.Printf("%-20s%.0fns/req (%s/req)\t%.0f req/sec\n", test, nsPerReq, time.Duration(nsPerReq), reqPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "Ops", "Endpoint", "TimeoutSec", "ConnectionsPerCPU", "BatchSize",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Stable row order
	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	sort.Strings(tests)

	for _, test := range tests {
		result := results[test]
		row := []string{
			test,
			strconv.FormatInt(result.NsPerOp(), 10),
			strconv.Itoa(result.N),
			config.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(benchConnections),
			strconv.Itoa(benchBatchSize),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %v", err)
		}
	}

	return nil
}
