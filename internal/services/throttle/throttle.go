// Package throttle реализует антиспам-защиту: минимальный интервал между
// двумя допущенными действиями одного пользователя.
package throttle

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
)

// Guard хранит отметку времени последнего допущенного действия каждого
// пользователя. Состояние живёт в памяти процесса и теряется при рестарте.
type Guard struct {
	mu          sync.Mutex
	lastAdmit   map[int64]time.Time
	minInterval time.Duration
	retention   time.Duration
	now         func() time.Time
}

// New создает Guard с настройками из конфига.
func New(cfg config.Throttle) *Guard {
	return &Guard{
		lastAdmit:   make(map[int64]time.Time),
		minInterval: cfg.MinInterval,
		retention:   cfg.Retention,
		now:         time.Now,
	}
}

// Admit решает, допускать ли действие пользователя. Первое действие или
// действие спустя minInterval допускается и фиксирует новую отметку;
// отказ отметку не трогает. Попутно вычищаются отметки старше retention —
// очистка инкрементальная, фоновая горутина не нужна.
func (g *Guard) Admit(userID int64) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastAdmit == nil {
		g.lastAdmit = make(map[int64]time.Time)
	}

	cutoff := now.Add(-g.retention)
	for id, ts := range g.lastAdmit {
		if ts.Before(cutoff) {
			delete(g.lastAdmit, id)
		}
	}

	if last, ok := g.lastAdmit[userID]; ok && now.Sub(last) < g.minInterval {
		return false
	}
	g.lastAdmit[userID] = now
	return true
}

// Size возвращает число отслеживаемых пользователей. Используется в метриках.
func (g *Guard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lastAdmit)
}
