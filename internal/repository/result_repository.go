package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantlab/sandbox-backend-go/internal/database"
	"github.com/quantlab/sandbox-backend-go/internal/models"
)

// ResultRepository handles database operations for sweep results
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// InsertBatch stores a sweep's results in a single transaction.
// Params are stored as a JSON text column.
func (r *ResultRepository) InsertBatch(sweepID string, results []models.Result) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO results (id, sweep_id, params, score) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare result insert: %w", err)
		}
		defer stmt.Close()

		for _, result := range results {
			paramsJSON, err := json.Marshal(result.Params)
			if err != nil {
				return fmt.Errorf("failed to marshal result params: %w", err)
			}
			if _, err := stmt.Exec(result.ID, sweepID, string(paramsJSON), result.Score); err != nil {
				return fmt.Errorf("failed to insert result %s: %w", result.ID, err)
			}
		}
		return nil
	})
}

// GetBySweep retrieves results for a sweep with optional score filtering
func (r *ResultRepository) GetBySweep(sweepID string, filter models.ResultFilter) ([]models.Result, error) {
	query := "SELECT id, params, score FROM results WHERE sweep_id = ?"
	args := []interface{}{sweepID}

	var conditions []string
	if filter.MinScore != nil {
		conditions = append(conditions, "score >= ?")
		args = append(args, *filter.MinScore)
	}
	if filter.MaxScore != nil {
		conditions = append(conditions, "score <= ?")
		args = append(args, *filter.MaxScore)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	// Stable order keeps index-coordinate layouts deterministic
	query += " ORDER BY rowid"

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
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var result models.Result
		var paramsJSON string
		if err := rows.Scan(&result.ID, &paramsJSON, &result.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &result.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result params: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// CountBySweep returns the number of stored results for a sweep
func (r *ResultRepository) CountBySweep(sweepID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM results WHERE sweep_id = ?", sweepID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
