package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/creamcroissant/namegate/internal/repository"
)

type checkLogRepo struct {
	db *sql.DB
}

func newCheckLogRepo(db *sql.DB) *checkLogRepo {
	return &checkLogRepo{db: db}
}

const checkLogColumns = "id, check_id, username, valid, reasons, source, source_ip, created_at"

func (r *checkLogRepo) Create(ctx context.Context, log *repository.CheckLog) error {
	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO check_logs (
			check_id, username, valid, reasons, source, source_ip, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		log.CheckID, log.Username, boolToInt(log.Valid), log.Reasons,
		log.Source, log.SourceIP, log.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

func (r *checkLogRepo) BatchCreate(ctx context.Context, logs []*repository.CheckLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO check_logs (
			check_id, username, valid, reasons, source, source_ip, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, log := range logs {
		if log.CreatedAt == 0 {
			log.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			log.CheckID, log.Username, boolToInt(log.Valid), log.Reasons,
			log.Source, log.SourceIP, log.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *checkLogRepo) FindByCheckID(ctx context.Context, checkID string) (*repository.CheckLog, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+checkLogColumns+" FROM check_logs WHERE check_id = ?", checkID)
	log, err := scanCheckLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return log, err
}

func (r *checkLogRepo) List(ctx context.Context, filter repository.CheckLogFilter) ([]*repository.CheckLog, error) {
	where, args := buildCheckLogFilter(filter)

	query := "SELECT " + checkLogColumns + " FROM check_logs" + where + " ORDER BY created_at DESC, id DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*repository.CheckLog
	for rows.Next() {
		log, err := scanCheckLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *checkLogRepo) Count(ctx context.Context, filter repository.CheckLogFilter) (int64, error) {
	where, args := buildCheckLogFilter(filter)
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM check_logs"+where, args...).Scan(&count)
	return count, err
}

func (r *checkLogRepo) DeleteBefore(ctx context.Context, cutoffUnix int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM check_logs WHERE created_at < ?", cutoffUnix)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func buildCheckLogFilter(filter repository.CheckLogFilter) (string, []any) {
	query := strings.Builder{}
	args := make([]any, 0)

	query.WriteString(" WHERE 1=1")

	if filter.Username != nil && *filter.Username != "" {
		query.WriteString(" AND username LIKE ?")
		args = append(args, "%"+*filter.Username+"%")
	}
	if filter.Valid != nil {
		query.WriteString(" AND valid = ?")
		args = append(args, boolToInt(*filter.Valid))
	}
	if filter.Source != nil && *filter.Source != "" {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.StartAt != nil {
		query.WriteString(" AND created_at >= ?")
		args = append(args, *filter.StartAt)
	}
	if filter.EndAt != nil {
		query.WriteString(" AND created_at < ?")
		args = append(args, *filter.EndAt)
	}

	return query.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckLog(row rowScanner) (*repository.CheckLog, error) {
	var log repository.CheckLog
	var valid int
	if err := row.Scan(
		&log.ID, &log.CheckID, &log.Username, &valid,
		&log.Reasons, &log.Source, &log.SourceIP, &log.CreatedAt,
	); err != nil {
		return nil, err
	}
	log.Valid = valid != 0
	return &log, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
