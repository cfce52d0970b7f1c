package sqlite

import (
	"database/sql"

	"github.com/creamcroissant/namegate/internal/repository"
)

// Store wires SQLite-backed repository implementations.
type Store struct {
	db        *sql.DB
	checkLogs repository.CheckLogRepository
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		checkLogs: newCheckLogRepo(db),
	}
}

func (s *Store) CheckLogs() repository.CheckLogRepository {
	return s.checkLogs
}
