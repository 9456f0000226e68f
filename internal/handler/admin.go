package handler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) isAdmin(c tele.Context) bool {
	return h.adminID != 0 && c.Sender().ID == h.adminID
}

// handleAdmin shows the admin panel with headline numbers
func (h *Handler) handleAdmin(c tele.Context) error {
	if !h.isAdmin(c) {
		return c.Send("У вас нет доступа к панели администратора.")
	}

	summary, err := h.stats.Summary()
	if err != nil {
		h.logger.Error("Failed to load stats summary", zap.Error(err))
		return c.Send(errorReply)
	}

	text := fmt.Sprintf(
		"📊 *Статистика Random Coffee*\n\n"+
			"👥 Всего пользователей: %d\n"+
			"✅ Активных пользователей: %d\n"+
			"🤝 Всего встреч: %d\n"+
			"📝 Всего отзывов: %d\n\n"+
			"*Доступные команды:*\n"+
			"/admin_stats — подробная статистика\n"+
			"/pair_now — запустить подбор пар\n"+
			"/cancel_meeting <id> — отменить встречу\n"+
			"/testmode_on, /testmode_off, /testmode_status — тестовый режим",
		summary.TotalUsers, summary.ActiveUsers, summary.TotalMeetings, summary.TotalFeedback,
	)
	return c.Send(text, tele.ModeMarkdown)
}

// handleAdminStats shows department/format breakdowns and avg rating
func (h *Handler) handleAdminStats(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	detailed, err := h.stats.Detailed()
	if err != nil {
		h.logger.Error("Failed to load detailed stats", zap.Error(err))
		return c.Send(errorReply)
	}

	text := fmt.Sprintf(
		"📈 *Подробная статистика*\n\n"+
			"🏢 *Распределение по отделам:*\n%s\n\n"+
			"🤝 *Предпочитаемые форматы встреч:*\n%s\n\n"+
			"⭐ *Средняя оценка встреч:* %.1f",
		formatCounts(detailed.ByDepartment),
		formatCounts(detailed.ByFormat),
		detailed.AverageRating,
	)
	return c.Send(text, tele.ModeMarkdown)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "Нет данных"
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("• %s: %d", key, counts[key]))
	}
	return strings.Join(lines, "\n")
}

// handlePairNow triggers a pairing round manually. The round is
// serialized with the scheduled job, so a race just waits.
func (h *Handler) handlePairNow(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	created, err := h.match.RunPairing(context.Background())
	if err != nil {
		h.logger.Error("Manual pairing round failed", zap.Error(err))
		return c.Send(errorReply)
	}
	return c.Send(fmt.Sprintf("🤝 Подбор завершён: создано встреч — %d.", len(created)))
}

// handleCancelMeeting cancels one meeting by id
func (h *Handler) handleCancelMeeting(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Использование: /cancel_meeting <id>")
	}
	meetingID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Неверный id встречи.")
	}

	if err := h.lifecycle.Cancel(meetingID); err != nil {
		h.logger.Error("Failed to cancel meeting",
			zap.Int64("meeting_id", meetingID), zap.Error(err))
		return c.Send(errorReply)
	}
	return c.Send(fmt.Sprintf("❌ Встреча %d отменена.", meetingID))
}

// handleTestModeOn enables the virtual clock; the scheduler switches
// every job to the accelerated cadence atomically with the toggle
func (h *Handler) handleTestModeOn(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	if !h.clock.Enable() {
		return c.Send("Тестовый режим уже активен.")
	}
	h.logger.Info("Test mode enabled", zap.Int64("admin_id", c.Sender().ID))
	return c.Send("✅ Тестовый режим активирован. Время ускорено, задачи переведены на короткий интервал.")
}

// handleTestModeOff disables the virtual clock
func (h *Handler) handleTestModeOff(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	if !h.clock.Disable() {
		return c.Send("Тестовый режим не активен.")
	}
	h.logger.Info("Test mode disabled", zap.Int64("admin_id", c.Sender().ID))
	return c.Send("⏹ Тестовый режим деактивирован. Задачи вернулись к обычному расписанию.")
}

// handleTestModeStatus reports the virtual clock state
func (h *Handler) handleTestModeStatus(c tele.Context) error {
	if !h.isAdmin(c) {
		return nil
	}

	status := h.clock.Status()
	if !status.Enabled {
		return c.Send("Тестовый режим не активен.")
	}

	virtual := status.ElapsedVirtual
	days := int(virtual.Hours()) / 24
	hours := int(virtual.Hours()) % 24
	minutes := int(virtual.Minutes()) % 60

	text := fmt.Sprintf(
		"✅ Тестовый режим активен\n"+
			"⏱ Активен: %.0f мин.\n"+
			"⏩ Ускоренное время: %d дн., %d час., %d мин.\n"+
			"🔄 Коэффициент ускорения: x%d",
		status.ElapsedReal.Minutes(), days, hours, minutes, status.Factor,
	)
	return c.Send(text)
}
