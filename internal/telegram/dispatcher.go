package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/pipeline"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// Число воркеров диспетчера. События одного пользователя всегда попадают
// в один воркер, что сохраняет их порядок.
const numShards = 8

// Dispatcher принимает обновления длинным опросом и раздаёт их воркерам.
type Dispatcher struct {
	api         *tgbotapi.BotAPI
	pipeline    *pipeline.Pipeline
	pollTimeout int
	log         *slog.Logger
}

// NewDispatcher создает диспетчер обновлений.
func NewDispatcher(client *Client, p *pipeline.Pipeline, pollTimeout int, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		api:         client.API(),
		pipeline:    p,
		pollTimeout: pollTimeout,
		log:         log,
	}
}

// Run запускает цикл опроса и блокируется до отмены контекста.
func (d *Dispatcher) Run(ctx context.Context) {
	shards := make([]chan models.Event, numShards)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan models.Event, 16)
		wg.Add(1)
		go func(events <-chan models.Event) {
			defer wg.Done()
			for event := range events {
				d.pipeline.Process(ctx, event)
			}
		}(shards[i])
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = d.pollTimeout
	updates := d.api.GetUpdatesChan(u)

	d.log.Info("update polling started")
loop:
	for {
		select {
		case <-ctx.Done():
			d.api.StopReceivingUpdates()
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			event, ok := EventFromUpdate(update)
			if !ok {
				continue
			}
			shard := int(uint64(event.UserID) % numShards)
			select {
			case shards[shard] <- event:
			case <-ctx.Done():
				d.api.StopReceivingUpdates()
				break loop
			}
		}
	}

	for _, ch := range shards {
		close(ch)
	}
	wg.Wait()
	d.log.Info("update polling stopped")
}

// EventFromUpdate строит событие конвейера из обновления Bot API.
// Обновления без пользователя (изменения постов канала и т.п.) отбрасываются.
func EventFromUpdate(update tgbotapi.Update) (models.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		event := models.Event{
			UserID:     cb.From.ID,
			CallbackID: cb.ID,
			Username:   cb.From.UserName,
			FirstName:  cb.From.FirstName,
			LastName:   cb.From.LastName,
			Action:     cb.Data,
			IsCallback: true,
		}
		if cb.Message != nil {
			event.ChatID = cb.Message.Chat.ID
			event.MessageID = cb.Message.MessageID
		}
		return event, true
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		action := "text"
		if msg.IsCommand() {
			action = msg.Command()
		}
		return models.Event{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Action:    action,
			Text:      msg.Text,
		}, true
	}
	return models.Event{}, false
}
