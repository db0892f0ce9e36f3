// Package telegram содержит клиент Bot API и диспетчер событий:
// приём обновлений длинным опросом и отправку ответов пользователям.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// Client оборачивает Bot API и реализует отправку ответов,
// пересылку материалов и уведомления административного чата.
type Client struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
	channelID   int64
	log         *slog.Logger
}

// NewClient создает клиента Bot API по токену из конфига.
func NewClient(cfg config.Telegram, log *slog.Logger) (*Client, error) {
	const op = "telegram.NewClient"
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("telegram bot authorized", slog.String("username", api.Self.UserName))
	return &Client{
		api:         api,
		adminChatID: cfg.AdminChatID,
		channelID:   cfg.MaterialsChannelID,
		log:         log,
	}, nil
}

// API возвращает низкоуровневый клиент для диспетчера обновлений.
func (c *Client) API() *tgbotapi.BotAPI {
	return c.api
}

// Send отправляет новое сообщение в чат.
func (c *Client) Send(ctx context.Context, chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	const op = "telegram.Send"
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Edit заменяет текст и клавиатуру существующего сообщения.
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	const op = "telegram.Edit"
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AnswerCallback закрывает callback, опционально показывая текст.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	const op = "telegram.AnswerCallback"
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = showAlert
	if _, err := c.api.Request(cb); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ForwardFromChannel пересылает сообщение из закрытого канала материалов.
func (c *Client) ForwardFromChannel(ctx context.Context, chatID int64, messageID int) error {
	const op = "telegram.ForwardFromChannel"
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	forward := tgbotapi.NewForward(chatID, c.channelID, messageID)
	if _, err := c.api.Send(forward); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Notify доставляет текст в административный чат.
func (c *Client) Notify(ctx context.Context, text string) error {
	return c.Send(ctx, c.adminChatID, text, nil)
}

// NotifyThrottled сообщает пользователю об отклонённом действии.
// Отправка best-effort: сбой только логируется.
func (c *Client) NotifyThrottled(ctx context.Context, event models.Event) {
	var err error
	if event.IsCallback {
		err = c.AnswerCallback(ctx, event.CallbackID, texts.ThrottleNotice, true)
	} else {
		err = c.Send(ctx, event.ChatID, texts.ThrottleNotice, nil)
	}
	if err != nil {
		c.log.Warn("failed to notify throttled user",
			slog.Int64("user_id", event.UserID), sl.Err(err))
	}
}
