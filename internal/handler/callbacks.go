package handler

import (
	"strings"
	"unicode"

	"coffeebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)
	if callback.Unique != "" {
		data = callback.Unique
	}

	switch data {
	case "format_offline":
		return h.regSelectFormat(c, domain.FormatOffline)
	case "format_online":
		return h.regSelectFormat(c, domain.FormatOnline)
	case "format_any":
		return h.regSelectFormat(c, domain.FormatAny)
	case "interests_done":
		return h.regInterestsDone(c)
	case "reg_confirm":
		return h.regConfirm(c)
	case "reg_restart":
		return h.regRestart(c)
	case "fb_skip_comment":
		return h.feedbackSkipComment(c)
	case "fb_skip_improve":
		return h.feedbackSkipImprovement(c)
	}

	switch {
	case strings.HasPrefix(data, "interest_"):
		return h.regToggleInterest(c, data)
	case strings.HasPrefix(data, "rate_"):
		return h.feedbackRate(c, data)
	case strings.HasPrefix(data, "fb_"):
		return h.feedbackStart(c, data)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
