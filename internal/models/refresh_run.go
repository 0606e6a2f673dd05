package models

import "time"

// RefreshRun is a row of the rate_refresh_runs table. Pairs holds the per-currency outcomes as JSON.
type RefreshRun struct {
	RunID          string    `db:"run_id"`
	AnchorCurrency string    `db:"anchor_currency"`
	ValidDate      time.Time `db:"valid_date"`
	Status         string    `db:"status"`
	Succeeded      int       `db:"succeeded"`
	Failed         []string  `db:"failed"`
	Pairs          []byte    `db:"pairs"`
	StartedAt      time.Time `db:"started_at"`
	FinishedAt     time.Time `db:"finished_at"`
}
