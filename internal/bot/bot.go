// Package bot answers Telegram messages with GitHub annual summaries.
package bot

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Replies sent to users.
const (
	GreetingText    = "Hello! Send me a GitHub username for an annual contribution summary."
	InvalidText     = "Please send a valid GitHub username."
	UnavailableText = "Could not fetch data. Check the username or try later."
	UnknownText     = "Unknown command. Send /start for help or just a GitHub username."
)

// Sender delivers outgoing messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// StatsFetcher produces annual stats for a username.
type StatsFetcher interface {
	FetchAnnualStats(ctx context.Context, username string) (domain.AnnualStats, error)
}

// Bot dispatches Telegram updates to the stats fetcher.
type Bot struct {
	sender  Sender
	stats   StatsFetcher
	workers int
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Bot handling at most workers updates at once, each within timeout.
func New(sender Sender, stats StatsFetcher, workers int, timeout time.Duration, logger *zap.Logger) *Bot {
	if workers < 1 {
		workers = 1
	}
	return &Bot{
		sender:  sender,
		stats:   stats,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Run consumes updates until the channel closes or ctx ends, then waits for
// in-flight handlers.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var g errgroup.Group
	g.SetLimit(b.workers)
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				b.HandleUpdate(ctx, update)
				return nil
			})
		}
	}
}

// HandleUpdate answers a single update. Updates without a text message
// (stickers, photos, edits) are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	logger := b.logger.With(zap.Int64("chat_id", msg.Chat.ID))

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(msg, GreetingText, "", logger)
		default:
			b.reply(msg, UnknownText, "", logger)
		}
		return
	}

	username, err := domain.NormalizeUsername(msg.Text)
	if err != nil {
		b.reply(msg, InvalidText, "", logger)
		return
	}

	msgCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	stats, err := b.stats.FetchAnnualStats(msgCtx, username)
	switch {
	case ctx.Err() != nil:
		logger.Info("dropping reply, bot is stopping", zap.String("username", username))
	case errors.Is(err, domain.ErrInvalidUsername):
		b.reply(msg, InvalidText, "", logger)
	case err != nil:
		logger.Warn("annual stats unavailable", zap.String("username", username), zap.Error(err))
		b.reply(msg, UnavailableText, "", logger)
	default:
		b.reply(msg, FormatSummary(username, stats), tgbotapi.ModeMarkdown, logger)
	}
}

func (b *Bot) reply(to *tgbotapi.Message, text, parseMode string, logger *zap.Logger) {
	out := tgbotapi.NewMessage(to.Chat.ID, text)
	out.ReplyToMessageID = to.MessageID
	out.ParseMode = parseMode
	if _, err := b.sender.Send(out); err != nil {
		logger.Error("sending reply", zap.Error(err))
	}
}
