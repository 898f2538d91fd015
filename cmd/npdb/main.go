package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicdata/npdb/internal/logging"
	"github.com/civicdata/npdb/pkg/npdb"
	"github.com/civicdata/npdb/pkg/npdb/config"
	"github.com/civicdata/npdb/pkg/npdb/ingest"
	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store/sqlite"
)

var (
	cfgPath string
	dbPath  string
	verbose bool

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "npdb",
	Short: "Nonprofit data engine: EO BMF ingestion, search, and statistics",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg = config.Default()
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Download and ingest all EO BMF partitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("prepare data directories: %w", err)
		}

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		summary, err := svc.RunIngestion(ctx)
		if err != nil {
			return fmt.Errorf("ingestion: %w", err)
		}

		fmt.Printf("run %s: %s\n", summary.RunID, summary.Status)
		fmt.Printf("  files retrieved:   %d\n", summary.FilesRetrieved)
		fmt.Printf("  records processed: %d\n", summary.RecordsProcessed)
		fmt.Printf("  records skipped:   %d\n", summary.RecordsSkipped)
		fmt.Printf("  errors:            %d\n", summary.Errors)
		fmt.Printf("  duration:          %s\n", summary.Duration)
		return nil
	},
}

var (
	searchState      string
	searchCity       string
	searchNTEE       string
	searchMinRevenue int64
	searchMaxRevenue int64
	searchMinAssets  int64
	searchMaxAssets  int64
	searchLimit      int
	searchOffset     int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search organizations with compound filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		req := query.Request{
			State:      searchState,
			City:       searchCity,
			NTEEPrefix: searchNTEE,
			Limit:      searchLimit,
			Offset:     searchOffset,
		}
		if len(args) > 0 {
			req.Query = args[0]
		}
		if cmd.Flags().Changed("min-revenue") {
			req.MinRevenue = &searchMinRevenue
		}
		if cmd.Flags().Changed("max-revenue") {
			req.MaxRevenue = &searchMaxRevenue
		}
		if cmd.Flags().Changed("min-assets") {
			req.MinAssets = &searchMinAssets
		}
		if cmd.Flags().Changed("max-assets") {
			req.MaxAssets = &searchMaxAssets
		}

		result, err := svc.Search(ctx, req)
		if err != nil {
			return err
		}

		for _, org := range result.Organizations {
			fmt.Printf("%s  %-40s %s, %s  revenue=$%d\n",
				org.EIN, org.Name, org.City, org.State, org.RevenueAmount)
		}
		fmt.Printf("%d of %d results (offset %d)\n",
			len(result.Organizations), result.Total, result.Offset)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <ein>",
	Short: "Look up one organization by EIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		org, found, err := svc.GetOrganization(ctx, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no organization with EIN %s", args[0])
		}

		fmt.Printf("EIN:        %s\n", org.EIN)
		fmt.Printf("Name:       %s\n", org.Name)
		fmt.Printf("Address:    %s, %s, %s %s\n", org.Street, org.City, org.State, org.Zip)
		fmt.Printf("NTEE:       %s (%s)\n", org.NTEECode, org.NTEEDescription)
		fmt.Printf("Subsection: %s  Foundation: %s\n", org.SubsectionCode, org.FoundationCode)
		fmt.Printf("Assets:     $%d\n", org.AssetAmount)
		fmt.Printf("Income:     $%d\n", org.IncomeAmount)
		fmt.Printf("Revenue:    $%d\n", org.RevenueAmount)
		fmt.Printf("Status:     %s  Ruling: %s  Tax period: %s\n",
			org.TaxExemptStatus, org.RulingDate, org.TaxPeriod)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		stats, err := svc.Statistics(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("organizations: %d\n\n", stats.TotalOrganizations)

		fmt.Println("top states:")
		for _, sc := range stats.TopStates {
			fmt.Printf("  %-2s %d\n", sc.State, sc.Count)
		}

		fmt.Println("\nNTEE categories:")
		for _, cc := range stats.NTEEDistribution {
			fmt.Printf("  %s  %-50s %d\n", cc.Category, cc.Name, cc.Count)
		}

		fmt.Println("\nrevenue distribution:")
		for _, rb := range stats.RevenueDistribution {
			fmt.Printf("  %-12s %d\n", rb.Range, rb.Count)
		}
		return nil
	},
}

func openService(ctx context.Context) (*npdb.Service, error) {
	st, err := sqlite.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}

	fetcher := ingest.NewFetcher(cfg.BaseURL, cfg.RawDir(),
		&http.Client{Timeout: cfg.FetchTimeout()}, logger)
	fetcher.Delay = cfg.FetchDelay()

	pipeline := ingest.NewPipeline(fetcher, cfg.Regions, logger)

	return npdb.New(npdb.Options{
		Store:     st,
		Pipeline:  pipeline,
		Logger:    logger,
		BatchSize: cfg.BatchSize,
	}), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	searchCmd.Flags().StringVar(&searchState, "state", "", "Exact state code (e.g. CA)")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "City substring match")
	searchCmd.Flags().StringVar(&searchNTEE, "ntee", "", "NTEE code prefix")
	searchCmd.Flags().Int64Var(&searchMinRevenue, "min-revenue", 0, "Minimum revenue (inclusive)")
	searchCmd.Flags().Int64Var(&searchMaxRevenue, "max-revenue", 0, "Maximum revenue (inclusive)")
	searchCmd.Flags().Int64Var(&searchMinAssets, "min-assets", 0, "Minimum assets (inclusive)")
	searchCmd.Flags().Int64Var(&searchMaxAssets, "max-assets", 0, "Maximum assets (inclusive)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", query.DefaultLimit, "Results per page")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Pagination offset")

	rootCmd.AddCommand(importCmd, searchCmd, getCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
