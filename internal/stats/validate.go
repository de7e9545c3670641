package stats

import (
	"log/slog"

	"github.com/chatlens/chatlens/internal/model"
)

// maxDirectParticipants is the participant count above which a chat is
// probably a group.
const maxDirectParticipants = 10

// validate logs anomalies in m. Nothing here is fatal.
func validate(logger *slog.Logger, m *model.Metrics, total int) {
	if m.TotalMessages == 0 {
		logger.Warn("no messages parsed, check export format")
	}
	if len(m.Participants) == 0 {
		logger.Warn("no participants found")
	}
	if len(m.Participants) > maxDirectParticipants {
		logger.Warn("many participants detected, might be a group chat",
			slog.Int("participants", len(m.Participants)),
		)
	}

	sum := 0
	for _, n := range m.MessagesByUser {
		sum += n
	}
	if sum != total {
		logger.Warn("message count mismatch",
			slog.Int("counted", sum),
			slog.Int("total", total),
		)
	}

	for user, n := range m.MessagesByUser {
		if n > total {
			logger.Error("user has more messages than total",
				slog.String("user", user),
				slog.Int("count", n),
				slog.Int("total", total),
			)
		}
	}

	topEmoji := ""
	if len(m.EmojiTop) > 0 {
		topEmoji = m.EmojiTop[0].Emoji
	}
	logger.Debug("metrics validated",
		slog.Int("messages", m.TotalMessages),
		slog.Int("participants", len(m.Participants)),
		slog.Int("love_count", m.LoveCount),
		slog.String("top_emoji", topEmoji),
	)
}
