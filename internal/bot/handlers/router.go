// Package handlers реализует экраны бота Recovery Lab и маршрутизацию
// событий по действиям. Решение о доступе к платным разделам приходит
// из конвейера: при отказе обработчик показывает предложение подписки.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/dialog"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/access"
)

// Ссылки сообщества Recovery Lab.
const (
	channelURL = "https://t.me/+x6O0l82YAbg3MmJi"
	chatURL    = "https://t.me/+ZFkkMxkM4PsyNWFi"
)

// Sender отправляет ответы пользователю через Telegram.
type Sender interface {
	// Send отправляет новое сообщение в чат.
	Send(ctx context.Context, chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error
	// Edit заменяет текст и клавиатуру существующего сообщения.
	Edit(ctx context.Context, chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error
	// AnswerCallback закрывает callback, опционально с всплывающим текстом.
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
	// ForwardFromChannel пересылает сообщение из закрытого канала материалов.
	ForwardFromChannel(ctx context.Context, chatID int64, messageID int) error
}

// UserService описывает операции с карточками, используемые экранами.
type UserService interface {
	Register(ctx context.Context, id int64, profile models.UserProfile) error
	MarkAwaitingPayment(ctx context.Context, id int64) error
	MarkPaymentClaimed(ctx context.Context, id int64) error
	RecordMaterialView(ctx context.Context, id int64) error
	RecordConsultationRequest(ctx context.Context, id int64) error
	AddProblem(ctx context.Context, id int64, problem string) error
	ListUsers(ctx context.Context) ([]*models.UserRecord, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// Alerter публикует оповещения оператору.
type Alerter interface {
	Send(kind string, event models.Event, text string)
}

// Router маршрутизирует события по экранам бота.
type Router struct {
	sender  Sender
	users   UserService
	alerts  Alerter
	dialogs *dialog.Store
	sub     config.Subscription
	adminID int64
	log     *slog.Logger
}

// New создает новый Router.
func New(sender Sender, users UserService, alerts Alerter, dialogs *dialog.Store,
	sub config.Subscription, adminID int64, log *slog.Logger) *Router {
	return &Router{
		sender:  sender,
		users:   users,
		alerts:  alerts,
		dialogs: dialogs,
		sub:     sub,
		adminID: adminID,
		log:     log,
	}
}

// Handle обрабатывает событие с учётом решения о доступе.
func (r *Router) Handle(ctx context.Context, event models.Event, decision access.Decision) error {
	if !event.IsCallback {
		return r.handleMessage(ctx, event)
	}
	return r.handleCallback(ctx, event, decision)
}

func (r *Router) handleMessage(ctx context.Context, event models.Event) error {
	switch event.Action {
	case "start":
		return r.handleStart(ctx, event)
	case "admin":
		return r.handleAdminPanel(ctx, event)
	case "help", "menu":
		return r.sender.Send(ctx, event.ChatID, texts.MainMenu, markup(keyboards.MainMenu()))
	}

	// Свободный текст: возможно, пользователь отвечает на форму
	state, ok, err := r.dialogs.Get(event.UserID)
	if err != nil {
		r.log.Warn("dialog state lookup failed", slog.Int64("user_id", event.UserID), sl.Err(err))
	}
	if ok {
		switch state {
		case dialog.StateBookingContacts:
			return r.handleBookingContacts(ctx, event)
		case dialog.StateConsultationDescription:
			return r.handleConsultationDescription(ctx, event)
		}
	}

	return r.sender.Send(ctx, event.ChatID, texts.MainMenu, markup(keyboards.MainMenu()))
}

func (r *Router) handleCallback(ctx context.Context, event models.Event, decision access.Decision) error {
	action := event.Action

	// Платный раздел без подписки: показываем предложение и короткое
	// уведомление, сам материал не отдаём.
	if decision.Class == access.ClassGated && !decision.Allowed {
		return r.handleLocked(ctx, event)
	}

	switch {
	case action == "menu":
		return r.edit(ctx, event, texts.MainMenu, keyboards.MainMenu())
	case action == "lab_recovery" || strings.HasPrefix(action, "recovery_day"):
		return r.handleRecovery(ctx, event)
	case action == "lab_breath" || strings.HasPrefix(action, "breath_"):
		return r.handleBreath(ctx, event)
	case action == "lab_body" || strings.HasPrefix(action, "body_"):
		return r.handleBody(ctx, event)
	case action == "lab_core" || strings.HasPrefix(action, "core_"):
		return r.handleCore(ctx, event)
	case action == "lab_mind" || strings.HasPrefix(action, "mind_"):
		return r.handleMind(ctx, event)
	case action == "info" || strings.HasPrefix(action, "info_"):
		return r.handleInfo(ctx, event)
	case action == "materials" || strings.HasPrefix(action, "materials_") ||
		strings.HasPrefix(action, "format_") || strings.HasPrefix(action, "get_material_"):
		return r.handleMaterials(ctx, event)
	case action == "problems" || strings.HasPrefix(action, "problem_") || action == "consultation":
		return r.handleProblems(ctx, event)
	case action == "subscribe" || action == "subscribe_info" || action == "pay" || action == "payment_confirm":
		return r.handlePayment(ctx, event)
	case action == "booking" || action == "booking_form":
		return r.handleBooking(ctx, event)
	case action == "reviews" || action == "leave_review":
		return r.handleReviews(ctx, event)
	case action == "contacts":
		return r.handleContacts(ctx, event)
	case action == "admin_stats" || action == "admin_users":
		return r.handleAdminCallback(ctx, event)
	}

	r.log.Warn("unknown callback action", slog.String("action", action),
		slog.Int64("user_id", event.UserID))
	return r.sender.AnswerCallback(ctx, event.CallbackID, "", false)
}

// handleLocked показывает предложение подписки вместо закрытого раздела.
func (r *Router) handleLocked(ctx context.Context, event models.Event) error {
	if err := r.sender.AnswerCallback(ctx, event.CallbackID, texts.SubscriptionRequired, true); err != nil {
		r.log.Warn("failed to answer callback", sl.Err(err))
	}
	return r.sender.Edit(ctx, event.ChatID, event.MessageID,
		texts.SubscriptionOffer(r.sub.Price), markup(keyboards.SubscriptionKeyboard(r.sub.Price)))
}

// edit заменяет текущий экран и закрывает callback.
func (r *Router) edit(ctx context.Context, event models.Event, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	if err := r.sender.Edit(ctx, event.ChatID, event.MessageID, text, &kb); err != nil {
		return fmt.Errorf("handlers.edit: %w", err)
	}
	return r.sender.AnswerCallback(ctx, event.CallbackID, "", false)
}

func markup(kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup {
	return &kb
}
