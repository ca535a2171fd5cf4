package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coinarena"

// Metrics holds the game counters. A nil *Metrics is valid and counts
// nothing, so services can run without monitoring wired up.
type Metrics struct {
	RoomsCreated   *prometheus.CounterVec
	RoomsFinished  *prometheus.CounterVec
	RoomsCancelled *prometheus.CounterVec
	CoinsWagered   *prometheus.CounterVec
	CoinsPaid      *prometheus.CounterVec
	CheckIns       prometheus.Counter
}

// NewMetrics builds and registers the collectors. Pass
// prometheus.DefaultRegisterer in production; tests hand in a private
// registry so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoomsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Total number of game rooms created",
		}, []string{"game_type"}),
		RoomsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_finished_total",
			Help:      "Total number of game rooms played to completion",
		}, []string{"game_type"}),
		RoomsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_cancelled_total",
			Help:      "Total number of game rooms cancelled before start",
		}, []string{"game_type"}),
		CoinsWagered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_wagered_total",
			Help:      "Total coins escrowed as bets",
		}, []string{"game_type"}),
		CoinsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_paid_total",
			Help:      "Total coins paid out to winners",
		}, []string{"game_type"}),
		CheckIns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Total number of daily check-ins",
		}),
	}

	reg.MustRegister(
		m.RoomsCreated,
		m.RoomsFinished,
		m.RoomsCancelled,
		m.CoinsWagered,
		m.CoinsPaid,
		m.CheckIns,
	)

	return m
}

func (m *Metrics) IncRoomsCreated(gameType string) {
	if m == nil {
		return
	}
	m.RoomsCreated.WithLabelValues(gameType).Inc()
}

func (m *Metrics) IncRoomsFinished(gameType string) {
	if m == nil {
		return
	}
	m.RoomsFinished.WithLabelValues(gameType).Inc()
}

func (m *Metrics) IncRoomsCancelled(gameType string) {
	if m == nil {
		return
	}
	m.RoomsCancelled.WithLabelValues(gameType).Inc()
}

func (m *Metrics) AddCoinsWagered(gameType string, amount int64) {
	if m == nil {
		return
	}
	m.CoinsWagered.WithLabelValues(gameType).Add(float64(amount))
}

func (m *Metrics) AddCoinsPaid(gameType string, amount int64) {
	if m == nil {
		return
	}
	m.CoinsPaid.WithLabelValues(gameType).Add(float64(amount))
}

func (m *Metrics) IncCheckIns() {
	if m == nil {
		return
	}
	m.CheckIns.Inc()
}
