package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Habit struct {
	ID          string
	UserID      int64
	Title       string
	Description string
	Level       Level
	Completed   bool
	Streak      int

	CreatedAt   time.Time
	LastUpdated time.Time
}
