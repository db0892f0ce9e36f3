// Package metrics регистрирует счётчики Prometheus для конвейера обработки
// событий. Значения отдаются через /metrics панели оператора.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics объединяет счётчики конвейера.
type Metrics struct {
	EventsTotal     *prometheus.CounterVec
	EventsThrottled prometheus.Counter
	AccessDenied    prometheus.Counter
	HandlerPanics   prometheus.Counter
}

// New создает и регистрирует счётчики в переданном реестре.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Число событий, вошедших в конвейер, по типу действия.",
		}, []string{"action"}),
		EventsThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_events_throttled_total",
			Help: "Число событий, отклонённых антиспам-защитой.",
		}),
		AccessDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_access_denied_total",
			Help: "Число платных действий без активной подписки.",
		}),
		HandlerPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_handler_panics_total",
			Help: "Число паник, перехваченных конвейером.",
		}),
	}
	reg.MustRegister(m.EventsTotal, m.EventsThrottled, m.AccessDenied, m.HandlerPanics)
	return m
}

// RegisterThrottleSize регистрирует gauge с числом пользователей,
// отслеживаемых антиспам-защитой.
func RegisterThrottleSize(reg prometheus.Registerer, size func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bot_throttle_tracked_users",
		Help: "Число пользователей с отметкой времени в антиспам-защите.",
	}, func() float64 { return float64(size()) }))
}
