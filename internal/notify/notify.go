// Package notify renders and delivers outbound messages. Delivery
// failure for one recipient is never fatal to the caller's batch.
package notify

import (
	"context"
	"fmt"
	"strings"

	"coffeebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Notifier sends messages through the Telegram bot
type Notifier struct {
	bot    *tele.Bot
	logger *zap.Logger
}

// New creates a new notifier
func New(bot *tele.Bot, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, logger: logger}
}

// SendMatch announces a new meeting to one participant, with the
// partner's card and a direct-contact button
func (n *Notifier) SendMatch(ctx context.Context, user, partner domain.User, shared []domain.Interest) error {
	var sb strings.Builder
	sb.WriteString("🎉 *Найден собеседник для Random Coffee!*\n\n")
	sb.WriteString(fmt.Sprintf("👤 *Имя:* %s\n", partner.FullName))
	if partner.Department != "" {
		sb.WriteString(fmt.Sprintf("🏢 *Отдел/роль:* %s", partner.Department))
		if partner.Role != "" {
			sb.WriteString(", " + partner.Role)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("🤝 *Формат встречи:* %s\n", partner.MeetingFormat.DisplayString()))

	if len(shared) > 0 {
		sb.WriteString("\n✨ *Общие интересы:*\n")
		for _, interest := range shared {
			sb.WriteString("• " + interest.DisplayString() + "\n")
		}
	}
	sb.WriteString("\nНапиши собеседнику напрямую, чтобы договориться о встрече!")

	markup := &tele.ReplyMarkup{}
	if partner.Username != "" {
		markup.Inline(markup.Row(
			markup.URL("💬 Написать собеседнику", "https://t.me/"+partner.Username),
		))
	}

	return n.send(user.TelegramID, sb.String(), markup)
}

// SendReminder reminds one participant about an upcoming meeting
func (n *Notifier) SendReminder(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error {
	text := fmt.Sprintf(
		"⏰ *Напоминание о встрече!*\n\nЧерез час у тебя встреча с *%s*.\nНе забудь! ☕",
		partner.FullName,
	)
	if meeting.ScheduledDate != nil {
		text = fmt.Sprintf(
			"⏰ *Напоминание о встрече!*\n\nВ %s у тебя встреча с *%s*.\nНе забудь! ☕",
			meeting.ScheduledDate.Format("15:04"),
			partner.FullName,
		)
	}
	return n.send(user.TelegramID, text, nil)
}

// SendFeedbackRequest asks one participant to rate a finished meeting.
// The inline button carries the meeting id for the feedback dialog.
func (n *Notifier) SendFeedbackRequest(ctx context.Context, user, partner domain.User, meeting domain.Meeting) error {
	text := fmt.Sprintf(
		"📝 *Как прошла встреча с %s?*\n\nПоделись впечатлениями — это поможет делать подборки лучше!",
		partner.FullName,
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("⭐ Оценить встречу", fmt.Sprintf("fb_%d", meeting.ID)),
	))

	return n.send(user.TelegramID, text, markup)
}

// SendReactivation nudges an opted-out user to come back
func (n *Notifier) SendReactivation(ctx context.Context, user domain.User) error {
	text := "👋 Давно не виделись!\n\n" +
		"Ты приостановил участие в Random Coffee. " +
		"Возвращайся — новые собеседники ждут! Нажми /resume, чтобы снова участвовать."
	return n.send(user.TelegramID, text, nil)
}

func (n *Notifier) send(recipientID int64, text string, markup *tele.ReplyMarkup) error {
	opts := []interface{}{tele.ModeMarkdown}
	if markup != nil {
		opts = append(opts, markup)
	}

	if _, err := n.bot.Send(tele.ChatID(recipientID), text, opts...); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", recipientID, err)
	}
	return nil
}
