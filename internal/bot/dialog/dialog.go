// Package dialog хранит состояние диалоговых форм (запись на занятие,
// запрос консультации) в Redis, переживая рестарт процесса.
package dialog

import (
	"fmt"
	"time"
)

// Состояния диалоговых форм.
const (
	StateBookingContacts         = "booking_contacts"
	StateConsultationDescription = "consultation_description"
)

const stateTTL = 30 * time.Minute

// Cache описывает методы кеша, используемые хранилищем состояний.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Store хранит состояние формы каждого пользователя.
type Store struct {
	cache Cache
}

// New создает новое хранилище состояний.
func New(cache Cache) *Store {
	return &Store{cache: cache}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("dialog:%d", userID)
}

// Set запоминает состояние формы пользователя.
func (s *Store) Set(userID int64, state string) error {
	return s.cache.Set(stateKey(userID), state, stateTTL)
}

// Get возвращает текущее состояние формы, если оно есть.
func (s *Store) Get(userID int64) (string, bool, error) {
	var state string
	found, err := s.cache.Get(stateKey(userID), &state)
	if err != nil || !found {
		return "", false, err
	}
	return state, true, nil
}

// Clear сбрасывает состояние формы.
func (s *Store) Clear(userID int64) error {
	return s.cache.Invalidate(stateKey(userID))
}
