package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// ErrUserNotFound возвращается при чтении отсутствующей карточки.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `user_id, username, first_name, last_name, phone,
			      date_registered, status, payment_active, subscription_start,
			      subscription_end, last_activity, materials_viewed,
			      consultation_requests, problems_selected, notes`

// CreateUser сохраняет новую карточку пользователя. Операция идемпотентна:
// повторная регистрация существующего user_id ничего не меняет и
// возвращает created=false без ошибки.
func (s *Storage) CreateUser(ctx context.Context, id int64, profile models.UserProfile) (bool, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (user_id, username, first_name, last_name, phone, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id) DO NOTHING;`
	res, err := s.DB.ExecContext(ctx, query,
		id, profile.Username, profile.FirstName, profile.LastName, profile.Phone,
		models.StatusNew)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rows > 0, nil
}

// GetUser возвращает карточку пользователя по его user_id.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.UserRecord, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE user_id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser применяет частичное обновление карточки: записываются только
// заполненные поля UserUpdate, last_activity обновляется всегда.
func (s *Storage) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (bool, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	set := []string{"last_activity = now()"}
	args := []any{id}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Status != nil {
		set = append(set, "status = "+arg(*upd.Status))
	}
	if upd.PaymentActive != nil {
		set = append(set, "payment_active = "+arg(*upd.PaymentActive))
	}
	if upd.SubscriptionStart != nil {
		set = append(set, "subscription_start = "+arg(*upd.SubscriptionStart))
	}
	if upd.SubscriptionEnd != nil {
		set = append(set, "subscription_end = "+arg(*upd.SubscriptionEnd))
	}
	if upd.Phone != nil {
		set = append(set, "phone = "+arg(*upd.Phone))
	}
	if upd.Notes != nil {
		set = append(set, "notes = "+arg(*upd.Notes))
	}

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE user_id = $1`
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rows > 0, nil
}

// IncrementCounter увеличивает счётчик карточки ровно на единицу.
// Допустимы только счётчики из белого списка.
func (s *Storage) IncrementCounter(ctx context.Context, id int64, field string) error {
	const op = "storage.IncrementCounter"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	switch field {
	case models.CounterMaterialsViewed, models.CounterConsultationRequests:
	default:
		return fmt.Errorf("%s: unknown counter %q", op, field)
	}

	query := `UPDATE users
			  SET ` + field + ` = ` + field + ` + 1,
			      last_activity = now()
			  WHERE user_id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// AddProblem добавляет метку проблемы в список карточки. Порядок вставки
// сохраняется, дубликаты не добавляются. Список хранится одной строкой
// через ", " — карточку пишет единственный процесс, поэтому
// чтение-изменение-запись здесь допустимо.
func (s *Storage) AddProblem(ctx context.Context, id int64, problem string) error {
	const op = "storage.AddProblem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var current string
	query := `SELECT problems_selected FROM users WHERE user_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	problems := splitProblems(current)
	for _, p := range problems {
		if p == problem {
			return nil
		}
	}
	problems = append(problems, problem)

	query = `UPDATE users
			 SET problems_selected = $2,
			     last_activity = now()
			 WHERE user_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id, strings.Join(problems, ", ")); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает все карточки, отсортированные по дате регистрации.
// Используется только отчётами панели оператора.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.UserRecord, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY date_registered`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUsers возвращает общее число карточек.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountPaying возвращает число карточек с активной оплатой.
func (s *Storage) CountPaying(ctx context.Context) (int, error) {
	const op = "storage.CountPaying"
	var count int
	query := `SELECT COUNT(*) FROM users WHERE payment_active = true`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.UserRecord, error) {
	u := &models.UserRecord{}
	var subscriptionStart, subscriptionEnd sql.NullTime
	var problems string

	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Phone,
		&u.DateRegistered, &u.Status, &u.PaymentActive, &subscriptionStart,
		&subscriptionEnd, &u.LastActivity, &u.MaterialsViewed,
		&u.ConsultationRequests, &problems, &u.Notes); err != nil {
		return nil, err
	}

	if subscriptionStart.Valid {
		u.SubscriptionStart = &subscriptionStart.Time
	}
	if subscriptionEnd.Valid {
		u.SubscriptionEnd = &subscriptionEnd.Time
	}
	u.ProblemsSelected = splitProblems(problems)
	return u, nil
}

func splitProblems(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ", ")
}
