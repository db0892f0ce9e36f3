// Package access реализует политику доступа к действиям бота: классификацию
// действий на бесплатные и платные и проверку активной подписки с ленивой
// коррекцией истёкшего срока.
package access

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// Class класс действия по отношению к подписке.
type Class int

const (
	// ClassFree действие доступно без подписки.
	ClassFree Class = iota
	// ClassGated действие требует активную подписку.
	ClassGated
)

// Decision решение о допуске пользователя к действию.
type Decision struct {
	Class   Class
	Allowed bool
}

// UserProvider описывает операции с карточками, нужные политике.
// Корректирующая запись об истечении — единственная мутация политики.
type UserProvider interface {
	Get(ctx context.Context, id int64) (*models.UserRecord, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (bool, error)
}

// Policy принимает решения о доступе по карточке пользователя.
type Policy struct {
	freePrefixes  []string
	gatedKeywords []string
	defaultGated  bool
	storeTimeout  time.Duration
	users         UserProvider
	log           *slog.Logger
	now           func() time.Time
}

// New создает политику доступа с заданными списками действий.
func New(cfg config.Access, users UserProvider, log *slog.Logger) *Policy {
	storeTimeout := cfg.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = 3 * time.Second
	}
	return &Policy{
		freePrefixes:  cfg.FreePrefixes,
		gatedKeywords: cfg.GatedKeywords,
		defaultGated:  cfg.DefaultGated,
		storeTimeout:  storeTimeout,
		users:         users,
		log:           log,
		now:           time.Now,
	}
}

// Classify определяет класс действия. Сначала проверяются префиксы
// бесплатных действий, затем маркеры платного контента; действия,
// не попавшие ни в один список, получают класс из конфига.
func (p *Policy) Classify(actionID string) Class {
	for _, prefix := range p.freePrefixes {
		if strings.HasPrefix(actionID, prefix) {
			return ClassFree
		}
	}
	for _, keyword := range p.gatedKeywords {
		if strings.Contains(actionID, keyword) {
			return ClassGated
		}
	}
	p.log.Debug("action fell through to default class",
		slog.String("action", actionID), slog.Bool("default_gated", p.defaultGated))
	if p.defaultGated {
		return ClassGated
	}
	return ClassFree
}

// CheckAccess проверяет допуск пользователя к действию.
//
// Бесплатные действия разрешаются без обращения к хранилищу. Для платных:
// отсутствие карточки или недоступность хранилища — отказ (fail-closed),
// истёкшая подписка корректируется на месте, решение принимается по
// payment_active после коррекции. Ошибки наружу не поднимаются.
// Обращения к хранилищу ограничены storeTimeout: зависший запрос не должен
// останавливать воркер конвейера, по истечении предела — отказ.
func (p *Policy) CheckAccess(ctx context.Context, userID int64, actionID string) Decision {
	const op = "access.CheckAccess"

	class := p.Classify(actionID)
	if class == ClassFree {
		return Decision{Class: ClassFree, Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	rec, err := p.users.Get(ctx, userID)
	if err != nil {
		p.log.Warn("gated access denied: user record unavailable",
			slog.String("op", op), slog.Int64("user_id", userID), sl.Err(err))
		return Decision{Class: ClassGated, Allowed: false}
	}

	corrected, needsPersist := CorrectExpiry(*rec, p.now())
	if needsPersist {
		status := models.StatusExpired
		paymentActive := false
		// Запись best-effort: её неудача не меняет решение об отказе.
		if _, err := p.users.Update(ctx, userID, models.UserUpdate{
			Status:        &status,
			PaymentActive: &paymentActive,
		}); err != nil {
			p.log.Warn("failed to persist expiry correction",
				slog.String("op", op), slog.Int64("user_id", userID), sl.Err(err))
		}
	}

	return Decision{Class: ClassGated, Allowed: corrected.PaymentActive}
}

// CorrectExpiry возвращает карточку с ленивой коррекцией истечения подписки:
// если subscription_end в прошлом, payment_active сбрасывается и статус
// становится "истек". Второй результат сообщает, нужна ли запись в хранилище.
func CorrectExpiry(rec models.UserRecord, now time.Time) (models.UserRecord, bool) {
	if rec.SubscriptionEnd == nil || !rec.SubscriptionEnd.Before(now) {
		return rec, false
	}
	needsPersist := rec.PaymentActive || rec.Status != models.StatusExpired
	rec.PaymentActive = false
	rec.Status = models.StatusExpired
	return rec, needsPersist
}
