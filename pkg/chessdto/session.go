package chessdto

// StateSummary describes a session's position after an operation.
type StateSummary struct {
	SessionUUID string
	FEN         string
	Turn        string
	HistoryLen  int
	GameOver    bool
	Outcome     string
	Method      string
	Check       bool
	LastMoveSAN string
	LastMoveUCI string
}
