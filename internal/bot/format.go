package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
)

// FormatSummary renders stats as a Telegram Markdown message.
func FormatSummary(username string, stats domain.AnnualStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *GitHub Annual Summary for @%s* (past 365 days)\n\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, username))
	line := func(label string, v int) {
		fmt.Fprintf(&b, "%s: %d\n", label, v)
	}
	line("🚀 *Commits*", stats.TotalCommits)
	line("❓ *Issues Opened*", stats.TotalIssues)
	line("🔄 *Pull Requests Opened*", stats.TotalPRs)
	line("👀 *PR Reviews*", stats.TotalReviews)
	line("🏗️ *Repos Contributed To*", stats.TotalReposContrib)
	line("📈 *Lines Added (in PRs)*", stats.Additions)
	line("📉 *Lines Deleted (in PRs)*", stats.Deletions)
	line("📜 *Lines Added (in Commits)*", stats.CommitAdditions)
	line("📝 *Lines Deleted (in Commits)*", stats.CommitDeletions)
	line("⭐ *Total Stars on Repos*", stats.TotalStars)
	line("🍴 *Total Forks on Repos*", stats.TotalForks)
	b.WriteString("\nShare this bot! Created by Gleb Kalyta.")
	return b.String()
}
