package domain

import "time"

// GameRecord is one archived finished game.
type GameRecord struct {
	ID           int64
	SessionUUID  string
	ChatHash     string
	Result       string
	ResultMethod string
	PGN          string
	FinalFEN     string
	MoveCount    int
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
