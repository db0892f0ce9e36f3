// Package user содержит бизнес-логику работы с карточками пользователей:
// регистрацию, счётчики, выдачу подписки и сводную статистику.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/storage/repository"
)

// UserRepository определяет методы хранилища карточек.
type UserRepository interface {
	// CreateUser идемпотентно сохраняет новую карточку.
	CreateUser(ctx context.Context, id int64, profile models.UserProfile) (bool, error)
	// GetUser возвращает карточку по user_id.
	GetUser(ctx context.Context, id int64) (*models.UserRecord, error)
	// UpdateUser применяет частичное обновление карточки.
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (bool, error)
	// IncrementCounter увеличивает счётчик карточки на единицу.
	IncrementCounter(ctx context.Context, id int64, field string) error
	// AddProblem добавляет метку проблемы без дубликатов.
	AddProblem(ctx context.Context, id int64, problem string) error
	// ListUsers возвращает все карточки для отчётов.
	ListUsers(ctx context.Context) ([]*models.UserRecord, error)
	// CountUsers возвращает общее число карточек.
	CountUsers(ctx context.Context) (int, error)
	// CountPaying возвращает число карточек с активной оплатой.
	CountPaying(ctx context.Context) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с карточками, включая кеширование.
// Каждое обращение к хранилищу ограничено queryTimeout: зависший запрос
// завершается ошибкой вместо блокировки вызвавшей горутины.
type Service struct {
	repo         UserRepository
	cache        Cache
	log          *slog.Logger
	cacheTTL     time.Duration
	queryTimeout time.Duration
}

// New создает новый экземпляр Service.
func New(repo UserRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		cache:        cache,
		log:          log,
		cacheTTL:     5 * time.Minute,
		queryTimeout: 3 * time.Second,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Register идемпотентно регистрирует пользователя при первом контакте.
// Повторная регистрация существующего id — no-op с успешным результатом.
func (s *Service) Register(ctx context.Context, id int64, profile models.UserProfile) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.repo.CreateUser(ctx, id, profile)
	if err != nil {
		return err
	}
	if created {
		s.log.Info("registered new user", slog.Int64("user_id", id),
			slog.String("username", profile.Username))
	}
	return nil
}

// Get возвращает карточку пользователя, используя кеш или хранилище.
func (s *Service) Get(ctx context.Context, id int64) (*models.UserRecord, error) {
	var result *models.UserRecord
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", key), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	result, err = s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache user record", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

// Update применяет частичное обновление и инвалидирует кеш.
func (s *Service) Update(ctx context.Context, id int64, upd models.UserUpdate) (bool, error) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.repo.UpdateUser(ctx, id, upd)
}

// MarkAwaitingPayment переводит карточку в статус "ожидает оплату".
func (s *Service) MarkAwaitingPayment(ctx context.Context, id int64) error {
	status := models.StatusAwaitingPayment
	_, err := s.Update(ctx, id, models.UserUpdate{Status: &status})
	return err
}

// MarkPaymentClaimed переводит карточку в статус "подтвердил оплату".
func (s *Service) MarkPaymentClaimed(ctx context.Context, id int64) error {
	status := models.StatusPaymentClaimed
	_, err := s.Update(ctx, id, models.UserUpdate{Status: &status})
	return err
}

// GrantSubscription открывает подписку на days дней начиная с текущего
// момента. Выполняется оператором после ручной проверки оплаты.
func (s *Service) GrantSubscription(ctx context.Context, id int64, days int) error {
	start := time.Now()
	end := start.AddDate(0, 0, days)
	status := models.StatusActiveSubscriber
	paymentActive := true

	ok, err := s.Update(ctx, id, models.UserUpdate{
		Status:            &status,
		PaymentActive:     &paymentActive,
		SubscriptionStart: &start,
		SubscriptionEnd:   &end,
	})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrUserNotFound
	}
	s.log.Info("subscription granted", slog.Int64("user_id", id), slog.Int("days", days))
	return nil
}

// RecordMaterialView увеличивает счётчик просмотренных материалов.
func (s *Service) RecordMaterialView(ctx context.Context, id int64) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Int64("user_id", id), sl.Err(err))
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.repo.IncrementCounter(ctx, id, models.CounterMaterialsViewed)
}

// RecordConsultationRequest увеличивает счётчик запросов консультаций.
func (s *Service) RecordConsultationRequest(ctx context.Context, id int64) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Int64("user_id", id), sl.Err(err))
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.repo.IncrementCounter(ctx, id, models.CounterConsultationRequests)
}

// AddProblem сохраняет выбранную пользователем проблему в карточке.
func (s *Service) AddProblem(ctx context.Context, id int64, problem string) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Int64("user_id", id), sl.Err(err))
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.repo.AddProblem(ctx, id, problem)
}

// ListUsers возвращает все карточки для панели оператора.
func (s *Service) ListUsers(ctx context.Context) ([]*models.UserRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.repo.ListUsers(ctx)
}

// Stats собирает сводную статистику по пользователям.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		TotalUsers: len(users),
		ByStatus:   make(map[string]int),
	}
	for _, u := range users {
		if u.PaymentActive {
			stats.PayingUsers++
		}
		stats.ByStatus[u.Status]++
	}
	return stats, nil
}
