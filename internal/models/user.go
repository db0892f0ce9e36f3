// Package models содержит структуры доменных данных бота.
package models

import "time"

// Статусы жизненного цикла пользователя. Поле справочное:
// решения о доступе принимаются только по PaymentActive.
const (
	StatusNew              = "новый"
	StatusAwaitingPayment  = "ожидает оплату"
	StatusPaymentClaimed   = "подтвердил оплату"
	StatusActiveSubscriber = "активная подписка"
	StatusExpired          = "истек"
)

// Счётчики пользователя, допустимые для инкремента.
const (
	CounterMaterialsViewed      = "materials_viewed"
	CounterConsultationRequests = "consultation_requests"
)

// UserRecord карточка пользователя бота. Одна запись на пользователя,
// ключ — телеграмный идентификатор.
type UserRecord struct {
	ID                   int64      `json:"id"`
	Username             string     `json:"username"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Phone                string     `json:"phone"`
	DateRegistered       time.Time  `json:"date_registered"`
	Status               string     `json:"status"`
	PaymentActive        bool       `json:"payment_active"`
	SubscriptionStart    *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd      *time.Time `json:"subscription_end,omitempty"`
	LastActivity         time.Time  `json:"last_activity"`
	MaterialsViewed      int        `json:"materials_viewed"`
	ConsultationRequests int        `json:"consultation_requests"`
	ProblemsSelected     []string   `json:"problems_selected"`
	Notes                string     `json:"notes"`
}

// UserProfile данные профиля при первой регистрации.
type UserProfile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// UserUpdate частичное обновление карточки: заполненные указатели
// попадают в запрос, nil-поля не трогаются. last_activity обновляется
// при любой записи.
type UserUpdate struct {
	Status            *string
	PaymentActive     *bool
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	Phone             *string
	Notes             *string
}

// Stats сводная статистика по пользователям для панели оператора.
type Stats struct {
	TotalUsers  int            `json:"total_users"`
	PayingUsers int            `json:"paying_users"`
	ByStatus    map[string]int `json:"by_status"`
}
