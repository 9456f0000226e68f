package handler

import (
	"coffeebot/internal/clock"
	"coffeebot/internal/domain"
	"coffeebot/internal/fsm"
	"coffeebot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	profile   *service.ProfileService
	match     *service.MatchService
	lifecycle *service.LifecycleService
	feedback  *service.FeedbackService
	stats     *service.StatsService
	states    *fsm.Store
	clock     *clock.Clock
	adminID   int64
	logger    *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	profile *service.ProfileService,
	match *service.MatchService,
	lifecycle *service.LifecycleService,
	feedback *service.FeedbackService,
	stats *service.StatsService,
	states *fsm.Store,
	clk *clock.Clock,
	adminID int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:       bot,
		profile:   profile,
		match:     match,
		lifecycle: lifecycle,
		feedback:  feedback,
		stats:     stats,
		states:    states,
		clock:     clk,
		adminID:   adminID,
		logger:    logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/pause", h.handlePause)
	h.bot.Handle("/resume", h.handleResume)

	// Admin commands
	h.bot.Handle("/admin", h.handleAdmin)
	h.bot.Handle("/admin_stats", h.handleAdminStats)
	h.bot.Handle("/pair_now", h.handlePairNow)
	h.bot.Handle("/cancel_meeting", h.handleCancelMeeting)
	h.bot.Handle("/testmode_on", h.handleTestModeOn)
	h.bot.Handle("/testmode_off", h.handleTestModeOff)
	h.bot.Handle("/testmode_status", h.handleTestModeStatus)

	// Dialog input
	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// stateKey builds the conversation state key for the current update
func (h *Handler) stateKey(c tele.Context) fsm.Key {
	key := fsm.Key{UserID: c.Sender().ID}
	if h.bot.Me != nil {
		key.BotID = h.bot.Me.ID
	}
	if c.Chat() != nil {
		key.ChatID = c.Chat().ID
	}
	if c.Message() != nil {
		key.ThreadID = int64(c.Message().ThreadID)
	}
	return key
}

// dialogState reads the current dialog step, "" when idle
func (h *Handler) dialogState(c tele.Context) domain.DialogState {
	state, err := h.states.GetState(h.stateKey(c))
	if err != nil {
		h.logger.Error("Failed to read dialog state", zap.Error(err))
		return ""
	}
	return domain.DialogState(state)
}

func (h *Handler) setDialogState(c tele.Context, state domain.DialogState) {
	if err := h.states.SetState(h.stateKey(c), string(state)); err != nil {
		h.logger.Error("Failed to store dialog state", zap.Error(err))
	}
}

func (h *Handler) updateDialogData(c tele.Context, partial map[string]interface{}) map[string]interface{} {
	data, err := h.states.UpdateData(h.stateKey(c), partial)
	if err != nil {
		h.logger.Error("Failed to update dialog data", zap.Error(err))
		return map[string]interface{}{}
	}
	return data
}

func (h *Handler) dialogData(c tele.Context) map[string]interface{} {
	data, err := h.states.GetData(h.stateKey(c))
	if err != nil {
		h.logger.Error("Failed to read dialog data", zap.Error(err))
		return map[string]interface{}{}
	}
	return data
}

func (h *Handler) resetDialog(c tele.Context) {
	if err := h.states.ResetAll(h.stateKey(c)); err != nil {
		h.logger.Error("Failed to reset dialog", zap.Error(err))
	}
}

const errorReply = "Произошла ошибка. Попробуйте позже."

// handlePause opts the user out of pairing rounds
func (h *Handler) handlePause(c tele.Context) error {
	if err := h.profile.SetActive(c.Sender().ID, false); err != nil {
		h.logger.Error("Failed to pause user", zap.Error(err))
		return c.Send(errorReply)
	}
	return c.Send("⏸ Участие приостановлено. Нажми /resume, когда захочешь вернуться.")
}

// handleResume opts the user back in
func (h *Handler) handleResume(c tele.Context) error {
	if err := h.profile.SetActive(c.Sender().ID, true); err != nil {
		h.logger.Error("Failed to resume user", zap.Error(err))
		return c.Send(errorReply)
	}
	return c.Send("▶️ С возвращением! Ты снова участвуешь в подборе собеседников.")
}

// handleText routes free-form input to the active dialog step
func (h *Handler) handleText(c tele.Context) error {
	switch h.dialogState(c) {
	case domain.StateRegName:
		return h.regSaveName(c)
	case domain.StateRegDepartment:
		return h.regSaveDepartment(c)
	case domain.StateRegRole:
		return h.regSaveRole(c)
	case domain.StateFeedbackComment:
		return h.feedbackSaveComment(c)
	case domain.StateFeedbackImprove:
		return h.feedbackSaveImprovement(c)
	}
	return c.Send("Не понял 🤔 Нажми /start, чтобы начать.")
}
