package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

// GetOperations retrieves all operation records ordered by ID
func (d *DB) GetOperations(ctx context.Context) ([]model.Operation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, volunteer_count_needed, status
		FROM operation
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var operations []model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(&op.ID, &op.Name, &op.VolunteerCountNeeded, &op.Status); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return operations, nil
}

// UpsertOperations inserts operations, replacing existing rows with the same ID
func (d *DB) UpsertOperations(ctx context.Context, operations []model.Operation) error {
	if len(operations) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, op := range operations {
		_, err := tx.Exec(ctx, `
			INSERT INTO operation (id, name, volunteer_count_needed, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				volunteer_count_needed = EXCLUDED.volunteer_count_needed,
				status = EXCLUDED.status
		`, op.ID, op.Name, op.VolunteerCountNeeded, op.Status)
		if err != nil {
			return fmt.Errorf("failed to upsert operation %s: %w", op.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
