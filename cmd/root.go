// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/config"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/gateway"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/logging"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "github-stats-bot",
	Short: "A Telegram bot summarizing a GitHub user's past year of contributions.",
	Long: `github-stats-bot aggregates a GitHub user's contributions over the past 365 days
(commits, issues, pull requests, reviews, lines added/deleted, stars and forks)
and answers with a summary in Telegram, over HTTP or on the command line.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// app holds the dependencies shared by every command.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	aggregator *usecase.Aggregator
}

// newApp loads configuration and wires the aggregator.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.InheritedFlags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, err
	}

	connector, err := gateway.NewGitHubConnector(gateway.Options{
		GraphQLURL: cfg.GithubGraphQLURL,
		RESTURL:    cfg.GithubAPIURL,
		Token:      cfg.GithubToken,
		Timeout:    cfg.GithubTimeout,
		RateLimit:  cfg.GithubRateLimit,
	}, logger.With(zap.String("component", "gateway")))
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create GitHub connector: %w", err)
	}
	if cfg.GithubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set, using unauthenticated requests with lower rate limits")
	}

	aggregator := usecase.NewAggregator(connector,
		logger.With(zap.String("component", "aggregator")),
		usecase.WithConcurrency(cfg.FanoutConcurrency),
	)
	return &app{cfg: cfg, logger: logger, aggregator: aggregator}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
