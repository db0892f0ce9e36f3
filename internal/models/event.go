package models

import (
	"strconv"
	"time"
)

// Event входящее событие от пользователя: команда, нажатие inline-кнопки
// или обычное текстовое сообщение. Транспортный слой собирает Event из
// телеграмного апдейта и передаёт его в конвейер обработки.
type Event struct {
	UserID     int64
	ChatID     int64
	MessageID  int
	CallbackID string
	Username   string
	FirstName  string
	LastName   string
	Action     string
	Text       string
	IsCallback bool
}

// ActorLabel возвращает строку для логов вида "123456 (@username)".
func (e Event) ActorLabel() string {
	if e.Username == "" {
		return strconv.FormatInt(e.UserID, 10)
	}
	return strconv.FormatInt(e.UserID, 10) + " (@" + e.Username + ")"
}

// OperatorAlert уведомление оператору о событии, требующем ручной
// обработки: заявка на оплату, запись на встречу, запрос консультации.
type OperatorAlert struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Виды уведомлений оператору.
const (
	AlertPaymentRequested = "payment_requested"
	AlertPaymentClaimed   = "payment_claimed"
	AlertBooking          = "booking"
	AlertConsultation     = "consultation"
)
