package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/SectionTrends/internal/collect"
	"github.com/TobiSchelling/SectionTrends/internal/config"
	"github.com/TobiSchelling/SectionTrends/internal/database"
	"github.com/TobiSchelling/SectionTrends/internal/pipeline"
	"github.com/TobiSchelling/SectionTrends/internal/prompt"
	"github.com/TobiSchelling/SectionTrends/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sectiontrends",
	Short:   "Keyword and publication trends for newspaper sections",
	Long:    "sectiontrends fetches the articles of a newspaper section for a date range, ranks their keywords, and charts how many were published per day, week or month.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "DEBUG"
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sectiontrends", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/sectiontrends/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set NYT_API_KEY in your environment or a .env file, or switch source to feed.")
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the sections accepted by run",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range cfg.Sections {
			fmt.Println(s)
		}
	},
}

// --- run command ---

var runOpts pipeline.Options

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch a section's articles, rank keywords, and chart publication counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := collect.NewSource(cfg)
		if err != nil {
			return err
		}
		log.Printf("Using source: %s", source.Name())

		var db *database.DB
		if cfg.Output.History {
			db, err = openDB()
			if err != nil {
				return err
			}
			defer db.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		pipe := pipeline.New(cfg, source, db, prompt.New(os.Stdin, os.Stdout))
		result, err := pipe.Run(ctx, runOpts)
		if errors.Is(err, prompt.ErrNoInput) {
			return fmt.Errorf("aborted: %w", err)
		}
		if err != nil {
			return err
		}

		if !result.Empty() && db != nil {
			fmt.Println("\nRun recorded. Run 'sectiontrends serve' to browse history.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.Section, "section", "", "Section to analyze (prompted if empty)")
	runCmd.Flags().StringVar(&runOpts.BeginDate, "begin", "", "Start date, YYYYMMDD (prompted if empty)")
	runCmd.Flags().StringVar(&runOpts.EndDate, "end", "", "End date, YYYYMMDD (prompted if empty)")
	runCmd.Flags().StringVar(&runOpts.Periodicity, "periodicity", "", "daily, weekly or monthly (prompted if empty)")
	runCmd.Flags().IntVar(&runOpts.TopN, "top", 0, "Number of keywords to rank (default from config)")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run history and database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}
		schema, err := db.SchemaVersion()
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}

		fmt.Printf("Database: %s (schema v%d)\n\n", db.Path(), schema)
		fmt.Printf("Source: %s\n", cfg.Source)
		if cfg.Source == config.SourceSearch {
			keyState := "set"
			if cfg.APIKey() == "" {
				keyState = "not set"
			}
			fmt.Printf("  API key (%s): %s\n", cfg.API.APIKeyEnv, keyState)
		}
		fmt.Println("\nHistory:")
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Sections: %d\n", stats.Sections)
		fmt.Printf("  Articles analyzed: %d\n", stats.TotalArticles)
		if stats.LastRunAt != nil {
			fmt.Printf("  Last run: %s\n", *stats.LastRunAt)
		}
		fmt.Printf("\nCharts: %s\n", cfg.GetChartDir())
		return nil
	},
}

// --- history command ---

var (
	historyLimit   int
	historySection string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var runs []database.Run
		if historySection != "" {
			runs, err = db.GetRunsForSection(config.NormalizeSection(historySection))
		} else {
			runs, err = db.GetRecentRuns(historyLimit)
		}
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded. Start one with: sectiontrends run")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("  [%d] %-20s %-30s %-8s %4d articles\n",
				r.ID, r.Section, database.FormatRangeDisplay(r.BeginDate, r.EndDate), r.Periodicity, r.ArticleCount)
		}

		if historySection == "" {
			counts, err := db.GetSectionCounts()
			if err != nil {
				return err
			}
			fmt.Println("\nRuns by section:")
			for _, c := range counts {
				fmt.Printf("  %s: %d\n", c.Section, c.Runs)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().StringVarP(&historySection, "section", "s", "", "Only show runs of this section")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server for browsing run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	return database.OpenInDir(cfg.GetDataDir())
}
