package domain

import "time"

// A User carries the demographic attributes used as the cold-start signal.
type User struct {
	ID       int64
	Username string
	Age      int
	Gender   string
}

// A Session is the per-user JSON blob, one row per user, upserted on every
// authenticated request.
type Session struct {
	UserID   int64
	Client   string
	LastSeen time.Time
}
