// Command vecindex-cli is a small operator tool for building, querying,
// and persisting a vecindex.Index: random-vector benchmarking, one-shot
// search against a snapshot, and snapshot inspection. Command dispatch is
// grounded on a sibling vector-store project's CLI (spf13/cobra), the
// library the retrieval pack reaches for whenever a vector-index project
// ships an operator CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicexipi/vecindex/internal/blobstore"
	"github.com/nicexipi/vecindex/internal/diag"
	"github.com/nicexipi/vecindex/internal/vecconfig"
	"github.com/nicexipi/vecindex/internal/vecindex"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "vecindex-cli",
		Short: "Operate a vecindex vector index: build, search, and persist snapshots.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "vecindex.json", "path to the JSON config file")

	root.AddCommand(newBenchCmd(&configPath))
	root.AddCommand(newSearchCmd(&configPath))
	root.AddCommand(newInfoCmd(&configPath))
	return root
}

func loadConfig(path string) *vecconfig.Config {
	m := vecconfig.NewManager(path)
	if err := m.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "vecindex-cli: warning: %v (using defaults)\n", err)
	}
	return m.Get()
}

// newBenchCmd builds an index of random vectors, prints the startup
// banner, and runs one parallel search with a random query at the
// configured threshold, printing the best match. It does not time the
// search and does not run the sequential variant; the engine's Go
// benchmarks cover that.
func newBenchCmd(configPath *string) *cobra.Command {
	var rows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Build a random index and report search behavior.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			if err := diag.Init(cfg.Log.Dir); err != nil {
				return err
			}
			defer diag.Close()

			idx := vecindex.NewIndex(cfg.Index.Dim, rows)
			r := rand.New(rand.NewSource(seed))
			v := make([]float32, cfg.Index.Dim)
			for id := 0; id < rows; id++ {
				for j := range v {
					v[j] = r.Float32()*2 - 1
				}
				idx.Add(uint64(id), v)
			}

			diag.PrintStartupBanner(os.Stdout, idx)

			query := make([]float32, cfg.Index.Dim)
			for j := range query {
				query[j] = r.Float32()*2 - 1
			}
			res, ok := idx.SearchParallel(query, float32(cfg.Index.Threshold))
			if !ok {
				fmt.Println("no row scored above threshold")
				return nil
			}
			fmt.Printf("best match: id=%d score=%.4f\n", res.ID, res.Score)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10000, "number of random rows to insert")
	cmd.Flags().Int64Var(&seed, "seed", 0xDEADBEEF, "PRNG seed for reproducible runs")
	return cmd
}

// newSearchCmd loads a persisted snapshot from a blobstore database and
// runs a single search against it using the CLI's own random query — a
// smoke test for a deployed index's snapshot, not a production query
// path.
func newSearchCmd(configPath *string) *cobra.Command {
	var name string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Load a named snapshot and run one randomized search against it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			store, err := blobstore.Open(cfg.Storage.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			idx, err := store.LoadIndex(name)
			if err != nil {
				return err
			}

			r := rand.New(rand.NewSource(1))
			query := make([]float32, idx.Dim())
			for j := range query {
				query[j] = r.Float32()*2 - 1
			}
			res, ok := idx.Search(query, float32(threshold))
			if !ok {
				fmt.Println("no row scored above threshold")
				return nil
			}
			fmt.Printf("best match: id=%d score=%.4f\n", res.ID, res.Score)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "default", "snapshot name in the blobstore database")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "minimum cosine similarity to report a match")
	return cmd
}

// newInfoCmd lists the snapshots recorded in the configured blobstore
// database.
func newInfoCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "List snapshots recorded in the configured blobstore database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			store, err := blobstore.Open(cfg.Storage.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("no snapshots stored")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%-20s dim=%-6d rows=%-8d updated=%s\n",
					info.Name, info.Dim, info.RowCount, info.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	return cmd
}
