// HealthLens — Smartwatch Health Report Pipeline
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/healthlens/healthlens/api"
	"github.com/healthlens/healthlens/internal/config"
	"github.com/healthlens/healthlens/internal/ingest"
	"github.com/healthlens/healthlens/internal/report"
	"github.com/healthlens/healthlens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "healthlens",
	Short: "HealthLens — smartwatch health reports from activity CSVs",
	Long: `HealthLens ingests a CSV of daily smartwatch metrics, flags days that
breach health thresholds, derives recommendations, renders metric charts
and assembles a downloadable PDF health report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("HealthLens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [csv file]",
	Short: "Analyze an activity CSV and optionally write a PDF report",
	Long: `Parse a smartwatch activity CSV, flag days breaching health
thresholds, print recommendations and optionally assemble the PDF report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		writePDF, _ := cmd.Flags().GetBool("pdf")
		outPath, _ := cmd.Flags().GetString("out")

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ds, err := ingest.ParseCSV(f)
		if err != nil {
			return err
		}

		res, err := report.Generate(report.Params{Name: name, Age: age, Dataset: ds}, report.Config{
			Chart: report.ChartConfig{
				PanelWidth:  cfg.Report.ChartWidth,
				PanelHeight: cfg.Report.ChartHeight,
			},
			PDF: report.PDFConfig{
				PageSize: cfg.Report.PageSize,
				Author:   cfg.Report.Author,
			},
		})
		if err != nil {
			return err
		}

		fmt.Printf("Parsed %d records from %s\n\n", len(ds), args[0])
		fmt.Printf("Anomalies Detected: %d\n", len(res.Anomalies))
		for _, rec := range res.Anomalies {
			fmt.Printf("  %s  steps=%s  hr=%.0f  sleep=%.1fh\n",
				rec.Date, utils.FormatSteps(rec.Steps), rec.HeartRate, rec.SleepHours)
		}
		fmt.Println("\nRecommendations:")
		for _, adv := range res.Advisories {
			fmt.Printf("  - %s\n", adv)
		}

		if writePDF {
			if outPath == "" {
				outPath = filepath.Join(cfg.Report.OutputDir, "health_report.pdf")
			}
			if err := os.WriteFile(outPath, res.PDF, 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("\nReport written to %s\n", outPath)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("name", "Anonymous", "name to print on the report")
	analyzeCmd.Flags().Int("age", 30, "age to print on the report (0-120)")
	analyzeCmd.Flags().Bool("pdf", false, "write the PDF report")
	analyzeCmd.Flags().String("out", "", "report output path (default: <output_dir>/health_report.pdf)")
}

// --- Serve Command (HTTP Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server with the upload form and report API",
	RunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load(".env") //nolint:errcheck

		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("Starting HealthLens server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("HealthLens — Configuration")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  API Server:  %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("  Page Size:   %s\n", cfg.Report.PageSize)
		fmt.Printf("  Chart Panel: %dx%d px\n", cfg.Report.ChartWidth, cfg.Report.ChartHeight)
		fmt.Printf("  Output Dir:  %s\n", cfg.Report.OutputDir)
		fmt.Printf("  Log Level:   %s\n", cfg.Logging.Level)
		return nil
	},
}
