package repo

import (
	"context"

	dom "github.com/oriana-monaldi/Hamster-habits/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HabitRepo interface {
	Create(ctx context.Context, h dom.Habit) (dom.Habit, error)
	GetByID(ctx context.Context, userID int64, id string) (dom.Habit, error)
	List(ctx context.Context, userID int64) ([]dom.Habit, error)
	Update(ctx context.Context, userID int64, id string, patch dom.Habit) (dom.Habit, error)
	Delete(ctx context.Context, userID int64, id string) error
	MarkCompleted(ctx context.Context, userID int64, id string) (dom.Habit, error)
	Search(ctx context.Context, userID int64, q string) ([]dom.Habit, error)
}

type PGHabitRepo struct {
	db *pgxpool.Pool
}

func NewPGHabitRepo(db *pgxpool.Pool) *PGHabitRepo {
	return &PGHabitRepo{db: db}
}

const habitColumns = `id, user_id, title, description, level, completed, streak, created_at, last_updated`

func scanHabit(row pgx.Row) (dom.Habit, error) {
	var h dom.Habit
	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Level,
		&h.Completed, &h.Streak, &h.CreatedAt, &h.LastUpdated)
	return h, err
}

// Create inserts a habit with a store-assigned ID. user_id is written here
// once and no other query in this repo ever sets it again.
func (r *PGHabitRepo) Create(ctx context.Context, h dom.Habit) (dom.Habit, error) {
	query := `
		INSERT INTO habits (id, user_id, title, description, level, completed, streak)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0)
		RETURNING ` + habitColumns
	return scanHabit(r.db.QueryRow(ctx, query,
		uuid.NewString(), h.UserID, h.Title, h.Description, h.Level))
}

func (r *PGHabitRepo) GetByID(ctx context.Context, userID int64, id string) (dom.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 AND id = $2`
	return scanHabit(r.db.QueryRow(ctx, query, userID, id))
}

func (r *PGHabitRepo) List(ctx context.Context, userID int64) ([]dom.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHabits(rows)
}

// Update patches title, description and level only. id and user_id appear
// solely in the WHERE clause, which is what keeps ownership immutable.
func (r *PGHabitRepo) Update(ctx context.Context, userID int64, id string, patch dom.Habit) (dom.Habit, error) {
	query := `
		UPDATE habits SET title = $3, description = $4, level = $5, last_updated = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING ` + habitColumns
	return scanHabit(r.db.QueryRow(ctx, query, userID, id, patch.Title, patch.Description, patch.Level))
}

// Delete removes the habit. pgx.ErrNoRows when nothing matched, so a repeat
// delete or a foreign ID reports failure instead of silently succeeding.
func (r *PGHabitRepo) Delete(ctx context.Context, userID int64, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGHabitRepo) MarkCompleted(ctx context.Context, userID int64, id string) (dom.Habit, error) {
	query := `
		UPDATE habits SET completed = TRUE, streak = streak + 1, last_updated = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING ` + habitColumns
	return scanHabit(r.db.QueryRow(ctx, query, userID, id))
}

func (r *PGHabitRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Habit, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + habitColumns + `
		FROM habits WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHabits(rows)
}

func collectHabits(rows pgx.Rows) ([]dom.Habit, error) {
	var list []dom.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}
