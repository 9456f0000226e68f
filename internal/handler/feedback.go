package handler

import (
	"fmt"
	"strconv"
	"strings"

	"coffeebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// feedbackStart begins the feedback dialog from a "fb_<meetingID>" button
func (h *Handler) feedbackStart(c tele.Context, data string) error {
	meetingID, err := strconv.ParseInt(strings.TrimPrefix(data, "fb_"), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная встреча"})
	}

	h.resetDialog(c)
	h.updateDialogData(c, map[string]interface{}{"meeting_id": float64(meetingID)})
	h.setDialogState(c, domain.StateFeedbackRating)

	markup := &tele.ReplyMarkup{}
	row := tele.Row{}
	for rating := 1; rating <= 5; rating++ {
		row = append(row, markup.Data(strconv.Itoa(rating)+"⭐", fmt.Sprintf("rate_%d", rating)))
	}
	markup.Inline(row)

	if err := c.Edit("Как оцениваешь встречу?", markup); err != nil {
		return c.Send("Как оцениваешь встречу?", markup)
	}
	return c.Respond()
}

// feedbackRate stores the rating from a "rate_<n>" button
func (h *Handler) feedbackRate(c tele.Context, data string) error {
	rating, err := strconv.Atoi(strings.TrimPrefix(data, "rate_"))
	if err != nil || rating < 1 || rating > 5 {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная оценка"})
	}
	if h.dialogState(c) != domain.StateFeedbackRating {
		return c.Respond(&tele.CallbackResponse{Text: "Оценка уже сохранена"})
	}

	h.updateDialogData(c, map[string]interface{}{"rating": float64(rating)})
	h.setDialogState(c, domain.StateFeedbackComment)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Пропустить ➡️", "fb_skip_comment")))

	if err := c.Edit("Спасибо! Расскажешь пару слов о встрече?", markup); err != nil {
		return c.Send("Спасибо! Расскажешь пару слов о встрече?", markup)
	}
	return c.Respond()
}

func (h *Handler) feedbackSaveComment(c tele.Context) error {
	h.updateDialogData(c, map[string]interface{}{"comment": strings.TrimSpace(c.Text())})
	return h.feedbackAskImprovement(c)
}

func (h *Handler) feedbackSkipComment(c tele.Context) error {
	if err := h.feedbackAskImprovement(c); err != nil {
		return err
	}
	return c.Respond()
}

func (h *Handler) feedbackAskImprovement(c tele.Context) error {
	h.setDialogState(c, domain.StateFeedbackImprove)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Пропустить ✅", "fb_skip_improve")))
	return c.Send("Что можно улучшить в Random Coffee?", markup)
}

func (h *Handler) feedbackSaveImprovement(c tele.Context) error {
	return h.feedbackFinish(c, strings.TrimSpace(c.Text()))
}

func (h *Handler) feedbackSkipImprovement(c tele.Context) error {
	if err := h.feedbackFinish(c, ""); err != nil {
		return err
	}
	return c.Respond()
}

func (h *Handler) feedbackFinish(c tele.Context, improvement string) error {
	userID := c.Sender().ID
	draft := domain.FeedbackDraftFromData(h.dialogData(c))

	err := h.feedback.Submit(draft.MeetingID, userID, draft.Rating, draft.Comment, improvement)
	if err != nil {
		h.logger.Error("Failed to save feedback",
			zap.Int64("meeting_id", draft.MeetingID),
			zap.Int64("from_user_id", userID),
			zap.Error(err))
		return c.Send(errorReply)
	}

	h.resetDialog(c)
	return c.Send("💚 Спасибо за отзыв! До следующей встречи.")
}
