package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/config"
	"github.com/robinblocks/site/internal/infra/integration/gemini"
	"github.com/robinblocks/site/internal/infra/integration/github"
	"github.com/robinblocks/site/internal/infra/logging"
	"github.com/robinblocks/site/internal/suggest"
)

var (
	flagFiles  []string
	flagModel  string
	flagRoot   string
	flagDryRun bool
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask Gemini for a signup improvement and file it as a GitHub issue",
	Long: `Reads the signup form sources, asks the model for one small actionable
improvement and opens an issue on GITHUB_REPO_OWNER/GITHUB_REPO_NAME.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSuggest,
}

func init() {
	rootCmd.Flags().StringSliceVar(&flagFiles, "file", nil, "source file to include, relative to --root (repeatable)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Gemini model (default GEMINI_MODEL or "+config.DefaultGeminiModel+")")
	rootCmd.Flags().StringVar(&flagRoot, "root", ".", "repository root")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the suggestion without filing an issue")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "verbose logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runSuggest(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	cfg := config.LoadSuggest()
	if flagModel != "" {
		cfg.GeminiModel = flagModel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (set them in your .env file)", err)
	}

	level := "info"
	if flagDebug {
		level = "debug"
	}
	logger, err := logging.New(true, level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return err
	}

	runner := &suggest.Runner{
		Generator: model,
		Issues:    github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, logger),
		Logger:    logger,
		Root:      flagRoot,
		Files:     flagFiles,
		DryRun:    flagDryRun,
	}

	logger.Info("requesting suggestion", zap.String("model", model.Model()), zap.Bool("dry_run", flagDryRun))
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if flagDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", res.Suggestion.Title, res.Suggestion.Body)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully created GitHub issue: %q\n%s\n", res.Suggestion.Title, res.URL)
	return nil
}
