package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/naka-gawa/readme-stats/internal/config"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"github.com/naka-gawa/readme-stats/internal/gateway"
	"github.com/naka-gawa/readme-stats/internal/render"
	"github.com/naka-gawa/readme-stats/internal/usecase"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerates the README sections and the JSON snapshot",
	Long: `Fetches repositories, organizations, releases and contribution activity for
the authenticated user, rewrites every marked section of the README template in
place and writes the collected numbers to a JSON file.

Without GH_TOKEN only public data is used and activity stays at zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configureWarnings(cmd.ErrOrStderr())
		// A missing .env file is fine.
		_ = godotenv.Load()

		cfg, err := configFromFlags(cmd, os.Getenv)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			pterm.Error.Printf("Invalid configuration: %v\n", err)
			return err
		}

		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if cfg.Verbose {
			logger.SetOutput(cmd.ErrOrStderr())
		}

		return runBuild(cmd.Context(), cfg, logger)
	},
}

func runBuild(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	data, err := os.ReadFile(cfg.ReadmePath)
	if err != nil {
		pterm.Error.Printf("Failed to read README template: %v\n", err)
		return fmt.Errorf("failed to read README template %s: %w", cfg.ReadmePath, err)
	}
	template := string(data)

	fallbackFollowers := 0
	if current, ok := render.ParseStatLine(template); ok {
		fallbackFollowers = current.Followers
		logger.Printf("Template stat line: %d followers, %d stars, %d forks", current.Followers, current.Stars, current.Forks)
	}

	if !cfg.HasToken() {
		pterm.Warning.Println("GH_TOKEN is not set, only public data will be collected")
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, cfg, logger)

	pterm.Info.Println("Collecting GitHub data...")
	overview, err := aggregator.Aggregate(ctx, fallbackFollowers)
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}

	renderer, err := render.NewRenderer(cfg)
	if err != nil {
		return err
	}
	readme, snapshot := renderer.Render(template, overview, time.Now())

	if err := writeOutputs(cfg, readme, snapshot); err != nil {
		pterm.Error.Printf("%v\n", err)
		return err
	}

	pterm.Success.Printf("Updated %s and %s: %s stars, %s forks, %d repositories\n",
		cfg.ReadmePath, cfg.JSONPath,
		render.FormatNumber(snapshot.Totals.Stars),
		render.FormatNumber(snapshot.Totals.Forks),
		snapshot.Scopes[domain.ScopeMerged].Count,
	)
	return nil
}

// configureWarnings sends pterm warnings and errors to w, keeping stdout for results.
func configureWarnings(w io.Writer) {
	pterm.Warning = *pterm.Warning.WithWriter(w)
	pterm.Error = *pterm.Error.WithWriter(w)
}

// configFromFlags loads the environment and applies the flags of cmd on top.
func configFromFlags(cmd *cobra.Command, getenv func(string) string) (*config.Config, error) {
	cfg := config.Load(getenv)
	flags := cmd.Flags()

	var err error
	if cfg.ReadmePath, err = flags.GetString("readme"); err != nil {
		return nil, err
	}
	if cfg.JSONPath, err = flags.GetString("json"); err != nil {
		return nil, err
	}
	if cfg.MinStars, err = flags.GetInt("min-stars"); err != nil {
		return nil, err
	}
	if cfg.TimeZone, err = flags.GetString("timezone"); err != nil {
		return nil, err
	}
	if cfg.ChartWidth, err = flags.GetInt("chart-width"); err != nil {
		return nil, err
	}
	// Get the verbose flag from the root command.
	cfg.Verbose, _ = flags.GetBool("verbose")
	return cfg, nil
}

// writeOutputs writes the JSON snapshot, then the README.
func writeOutputs(cfg *config.Config, readme string, snapshot *render.Snapshot) error {
	jsonData, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.JSONPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.JSONPath, err)
	}
	if err := os.WriteFile(cfg.ReadmePath, []byte(readme), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.ReadmePath, err)
	}
	return nil
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("readme", config.DefaultReadmePath, "README template, rewritten in place")
	cmd.Flags().String("json", config.DefaultJSONPath, "Output path of the JSON snapshot")
	cmd.Flags().Int("min-stars", config.DefaultMinStars, "Minimum stars for a repository to be ranked")
	cmd.Flags().String("timezone", config.DefaultTimeZone, "IANA time zone of the last updated timestamp")
	cmd.Flags().Int("chart-width", config.DefaultChartWidth, "Number of cells in each chart bar")
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}
