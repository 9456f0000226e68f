package middleware

import (
	"strings"

	"coffeebot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// EnsureUser creates a blank profile on first contact so every later
// handler can assume the user row exists
func EnsureUser(profile *service.ProfileService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			fullName := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
			if _, err := profile.EnsureUser(sender.ID, fullName, sender.Username); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			return next(c)
		}
	}
}
