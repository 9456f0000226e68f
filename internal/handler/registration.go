package handler

import (
	"fmt"
	"strconv"
	"strings"

	"coffeebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart greets the user and begins registration if needed
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()

	h.logger.Info("User started bot",
		zap.Int64("user_id", sender.ID),
		zap.String("username", sender.Username),
	)

	fullName := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	user, err := h.profile.EnsureUser(sender.ID, fullName, sender.Username)
	if err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(errorReply)
	}

	if user.RegistrationComplete {
		return c.Send(
			"☕ С возвращением!\n\n"+
				"Ты уже участвуешь в Random Coffee. Раз в неделю бот подберёт тебе собеседника.\n\n"+
				"/pause — приостановить участие\n"+
				"/resume — возобновить участие",
		)
	}

	h.resetDialog(c)
	h.setDialogState(c, domain.StateRegName)
	return c.Send(
		"👋 Привет! Это бот Random Coffee — раз в неделю он подбирает собеседника " +
			"для короткой неформальной встречи.\n\n" +
			"Давай познакомимся. Как тебя зовут?",
	)
}

func (h *Handler) regSaveName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send("Напиши, пожалуйста, своё имя.")
	}

	h.updateDialogData(c, map[string]interface{}{"full_name": name})
	h.setDialogState(c, domain.StateRegDepartment)
	return c.Send("Отлично! В каком подразделении ты работаешь?")
}

func (h *Handler) regSaveDepartment(c tele.Context) error {
	h.updateDialogData(c, map[string]interface{}{"department": strings.TrimSpace(c.Text())})
	h.setDialogState(c, domain.StateRegRole)
	return c.Send("Какая у тебя роль?")
}

func (h *Handler) regSaveRole(c tele.Context) error {
	h.updateDialogData(c, map[string]interface{}{"role": strings.TrimSpace(c.Text())})
	h.setDialogState(c, domain.StateRegFormat)
	return c.Send("Какой формат встреч тебе удобнее?", formatMarkup())
}

// formatMarkup builds the meeting format keyboard
func formatMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Оффлайн 🏢", "format_offline")),
		markup.Row(markup.Data("Онлайн 💻", "format_online")),
		markup.Row(markup.Data("Не важно 🔄", "format_any")),
	)
	return markup
}

func (h *Handler) regSelectFormat(c tele.Context, format domain.MeetingFormat) error {
	h.updateDialogData(c, map[string]interface{}{"meeting_format": string(format)})
	h.setDialogState(c, domain.StateRegInterests)

	markup, err := h.interestsMarkup(nil)
	if err != nil {
		h.logger.Error("Failed to build interests keyboard", zap.Error(err))
		return c.Send(errorReply)
	}

	if err := c.Edit("О чём тебе интересно поговорить? Можно выбрать несколько.", markup); err != nil {
		return c.Send("О чём тебе интересно поговорить? Можно выбрать несколько.", markup)
	}
	return c.Respond()
}

// interestsMarkup builds the interest toggle keyboard, marking selected ids
func (h *Handler) interestsMarkup(selected []int64) (*tele.ReplyMarkup, error) {
	interests, err := h.profile.ListInterests()
	if err != nil {
		return nil, err
	}

	selectedSet := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(interests)+1)
	for _, interest := range interests {
		label := interest.DisplayString()
		if _, ok := selectedSet[interest.ID]; ok {
			label = "✅ " + label
		}
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("interest_%d", interest.ID))))
	}
	rows = append(rows, markup.Row(markup.Data("Готово ➡️", "interests_done")))
	markup.Inline(rows...)
	return markup, nil
}

func (h *Handler) regToggleInterest(c tele.Context, data string) error {
	interestID, err := strconv.ParseInt(strings.TrimPrefix(data, "interest_"), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверный выбор"})
	}

	draft := domain.RegistrationDraftFromData(h.dialogData(c))

	toggled := make([]int64, 0, len(draft.InterestIDs)+1)
	removed := false
	for _, id := range draft.InterestIDs {
		if id == interestID {
			removed = true
			continue
		}
		toggled = append(toggled, id)
	}
	if !removed {
		toggled = append(toggled, interestID)
	}

	ids := make([]interface{}, 0, len(toggled))
	for _, id := range toggled {
		ids = append(ids, float64(id))
	}
	h.updateDialogData(c, map[string]interface{}{"interest_ids": ids})

	markup, err := h.interestsMarkup(toggled)
	if err != nil {
		h.logger.Error("Failed to build interests keyboard", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}

	if err := c.Edit("О чём тебе интересно поговорить? Можно выбрать несколько.", markup); err != nil {
		h.logger.Debug("Failed to edit interests keyboard", zap.Error(err))
	}
	return c.Respond()
}

func (h *Handler) regInterestsDone(c tele.Context) error {
	draft := domain.RegistrationDraftFromData(h.dialogData(c))
	h.setDialogState(c, domain.StateRegConfirm)

	summary := fmt.Sprintf(
		"Проверь анкету:\n\n"+
			"👤 Имя: %s\n"+
			"🏢 Подразделение: %s\n"+
			"💼 Роль: %s\n"+
			"🤝 Формат: %s\n"+
			"✨ Интересов выбрано: %d\n\n"+
			"Всё верно?",
		draft.FullName, draft.Department, draft.Role,
		draft.Format.DisplayString(), len(draft.InterestIDs),
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("✅ Всё верно", "reg_confirm")),
		markup.Row(markup.Data("🔄 Заполнить заново", "reg_restart")),
	)

	if err := c.Edit(summary, markup); err != nil {
		return c.Send(summary, markup)
	}
	return c.Respond()
}

func (h *Handler) regConfirm(c tele.Context) error {
	userID := c.Sender().ID
	draft := domain.RegistrationDraftFromData(h.dialogData(c))

	if err := h.profile.CompleteRegistration(userID, draft); err != nil {
		h.logger.Error("Failed to complete registration",
			zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при сохранении"})
	}

	h.resetDialog(c)

	text := "🎉 Готово! Ты участвуешь в Random Coffee.\n\n" +
		"Раз в неделю бот подберёт тебе собеседника и пришлёт сообщение. До встречи!"
	if err := c.Edit(text); err != nil {
		return c.Send(text)
	}
	return c.Respond()
}

func (h *Handler) regRestart(c tele.Context) error {
	h.resetDialog(c)
	h.setDialogState(c, domain.StateRegName)

	text := "Начнём заново. Как тебя зовут?"
	if err := c.Edit(text); err != nil {
		return c.Send(text)
	}
	return c.Respond()
}
