package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Runs the Telegram bot",
	Long:  `Polls Telegram for messages and answers each GitHub username with an annual contribution summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN environment variable is not set")
		}
		api, err := tgbotapi.NewBotAPI(a.cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("failed to connect to Telegram: %w", err)
		}
		a.logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := api.GetUpdatesChan(u)
		go func() {
			<-ctx.Done()
			api.StopReceivingUpdates()
		}()

		b := bot.New(api, a.aggregator, a.cfg.BotWorkers, a.cfg.MessageTimeout,
			a.logger.With(zap.String("component", "bot")))
		if err := b.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		a.logger.Info("bot stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
