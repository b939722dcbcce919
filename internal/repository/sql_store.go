package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"rspo-readiness/internal/model"
)

// Statements use $N placeholders and ON CONFLICT, which both PostgreSQL and
// SQLite accept. Timestamps are stored as RFC 3339 text.
var sqlMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assessment_records (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		role         TEXT NOT NULL,
		stage        INTEGER NOT NULL,
		answers      TEXT NOT NULL,
		total_score  INTEGER NOT NULL,
		max_score    INTEGER NOT NULL,
		percentage   INTEGER NOT NULL,
		tier         TEXT NOT NULL,
		eligible     INTEGER NOT NULL,
		completed_at TEXT NOT NULL,
		UNIQUE (user_id, stage)
	)`,
}

// MigrateSQL creates the tables if they do not exist
func MigrateSQL(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqlMigrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

type sqlUserRepo struct {
	db *sql.DB
}

// NewSQLUserRepo creates a user repository over database/sql
func NewSQLUserRepo(db *sql.DB) UserRepo {
	return &sqlUserRepo{db: db}
}

func (r *sqlUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, string(user.Role), user.PasswordHash, formatTime(user.CreatedAt))
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.queryOne(ctx, `SELECT id, email, name, role, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *sqlUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.queryOne(ctx, `SELECT id, email, name, role, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *sqlUserRepo) queryOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var (
		user      model.User
		role      string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.Name, &role, &user.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	user.CreatedAt = parseTime(createdAt)
	return &user, nil
}

type sqlResultRepo struct {
	db *sql.DB
}

// NewSQLResultRepo creates an assessment record repository over database/sql
func NewSQLResultRepo(db *sql.DB) ResultRepo {
	return &sqlResultRepo{db: db}
}

const recordColumns = `id, user_id, role, stage, answers, total_score, max_score, percentage, tier, eligible, completed_at`

func (r *sqlResultRepo) Save(ctx context.Context, record *model.AssessmentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	answers, err := json.Marshal(record.Answers)
	if err != nil {
		return err
	}
	eligible := 0
	if record.Eligible {
		eligible = 1
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO assessment_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, stage) DO UPDATE SET
			role = excluded.role,
			answers = excluded.answers,
			total_score = excluded.total_score,
			max_score = excluded.max_score,
			percentage = excluded.percentage,
			tier = excluded.tier,
			eligible = excluded.eligible,
			completed_at = excluded.completed_at
		RETURNING id`,
		record.ID, record.UserID, string(record.Role), int(record.Stage), string(answers),
		record.TotalScore, record.MaxScore, record.Percentage, record.Tier, eligible,
		formatTime(record.CompletedAt))
	return row.Scan(&record.ID)
}

func (r *sqlResultRepo) GetByUserStage(ctx context.Context, userID string, stage model.Stage) (*model.AssessmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM assessment_records WHERE user_id = $1 AND stage = $2`,
		userID, int(stage))
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

func (r *sqlResultRepo) GetByUser(ctx context.Context, userID string) ([]*model.AssessmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM assessment_records WHERE user_id = $1 ORDER BY stage`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*model.AssessmentRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *sqlResultRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assessment_records WHERE user_id = $1`, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.AssessmentRecord, error) {
	var (
		record      model.AssessmentRecord
		role        string
		stage       int
		answers     string
		eligible    int
		completedAt string
	)
	err := row.Scan(&record.ID, &record.UserID, &role, &stage, &answers,
		&record.TotalScore, &record.MaxScore, &record.Percentage, &record.Tier,
		&eligible, &completedAt)
	if err != nil {
		return nil, err
	}
	record.Role = model.Role(role)
	record.Stage = model.Stage(stage)
	record.Eligible = eligible != 0
	record.CompletedAt = parseTime(completedAt)
	if err := json.Unmarshal([]byte(answers), &record.Answers); err != nil {
		return nil, fmt.Errorf("decode answers of record %s: %w", record.ID, err)
	}
	return &record, nil
}
