package repository

// CheckLog records a single username check and its verdict.
type CheckLog struct {
	ID        int64
	CheckID   string // uuid assigned by the service
	Username  string
	Valid     bool
	Reasons   string // comma-separated violation codes, empty when valid
	Source    string // cli, http, tui
	SourceIP  string
	CreatedAt int64 // Unix timestamp
}

// CheckLogFilter defines filter conditions for querying check logs.
type CheckLogFilter struct {
	Username *string // LIKE match
	Valid    *bool
	Source   *string
	StartAt  *int64
	EndAt    *int64
	Limit    int
	Offset   int
}
