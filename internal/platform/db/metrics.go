package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPoolMetrics exposes connection pool gauges on reg. Values are read
// from pool.Stat at scrape time.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauges := []struct {
		name, help string
		value      func(*pgxpool.Stat) float64
	}{
		{"stockroom_db_pool_total_conns", "Connections currently open in the pool.",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
		{"stockroom_db_pool_acquired_conns", "Connections currently checked out.",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
		{"stockroom_db_pool_idle_conns", "Idle connections in the pool.",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
		{"stockroom_db_pool_max_conns", "Configured pool size.",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
	}
	for _, g := range gauges {
		value := g.value
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: g.name, Help: g.help}, func() float64 {
			return value(pool.Stat())
		})
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
