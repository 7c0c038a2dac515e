package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantlab/sandbox-backend-go/internal/database"
	"github.com/quantlab/sandbox-backend-go/internal/models"
)

// SweepRepository handles database operations for sweep definitions
type SweepRepository struct {
	db *sql.DB
}

// NewSweepRepository creates a new sweep repository
func NewSweepRepository(db *sql.DB) *SweepRepository {
	return &SweepRepository{db: db}
}

// Create stores a sweep definition. Params are stored as a JSON text column.
func (r *SweepRepository) Create(sweep models.Sweep) error {
	paramsJSON, err := json.Marshal(sweep.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep params: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO sweeps (id, name, score_direction, params, seed, result_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sweep.ID, sweep.Name, sweep.ScoreDirection, string(paramsJSON),
		sweep.Seed, sweep.ResultCount, sweep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sweep: %w", err)
	}
	return nil
}

// List retrieves sweeps with filtering, newest first
func (r *SweepRepository) List(filter models.SweepFilter) ([]models.Sweep, error) {
	query := `SELECT id, name, score_direction, params, seed, result_count, created_at FROM sweeps`

	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweeps: %w", err)
	}
	defer rows.Close()

	var sweeps []models.Sweep
	for rows.Next() {
		sweep, err := scanSweep(rows)
		if err != nil {
			return nil, err
		}
		sweeps = append(sweeps, sweep)
	}
	return sweeps, rows.Err()
}

// GetByID retrieves a single sweep; returns nil when not found
func (r *SweepRepository) GetByID(id string) (*models.Sweep, error) {
	row := r.db.QueryRow(
		`SELECT id, name, score_direction, params, seed, result_count, created_at
		 FROM sweeps WHERE id = ?`, id)

	sweep, err := scanSweep(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sweep, nil
}

// Delete removes a sweep and its results. Results are deleted explicitly
// so removal doesn't depend on per-connection foreign-key pragma state.
func (r *SweepRepository) Delete(id string) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM results WHERE sweep_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete sweep results: %w", err)
		}
		res, err := tx.Exec("DELETE FROM sweeps WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete sweep: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSweep(row rowScanner) (models.Sweep, error) {
	var sweep models.Sweep
	var paramsJSON string
	err := row.Scan(&sweep.ID, &sweep.Name, &sweep.ScoreDirection,
		&paramsJSON, &sweep.Seed, &sweep.ResultCount, &sweep.CreatedAt)
	if err == sql.ErrNoRows {
		return sweep, err
	}
	if err != nil {
		return sweep, fmt.Errorf("failed to scan sweep: %w", err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &sweep.Params); err != nil {
		return sweep, fmt.Errorf("failed to unmarshal sweep params: %w", err)
	}
	return sweep, nil
}
