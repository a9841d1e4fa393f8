package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

const volunteerColumns = `id, full_name, phone, email, volunteer_type, members, roles, languages,
	date, available_time, living_area, operation_id, operation_name, assignment_status,
	assigned_date, assigned_by, assigned_to, assignment_notes, notes`

// role_keys and language_keys are derived on write and never scanned back
const volunteerWriteColumns = volunteerColumns + `, role_keys, language_keys`

// GetVolunteers retrieves volunteers matching the query's pre-filters, ordered by ID
func (d *DB) GetVolunteers(ctx context.Context, query db.VolunteerQuery) ([]model.Volunteer, error) {
	where, args := volunteerFilter(query)

	rows, err := d.pool.Query(ctx, `SELECT `+volunteerColumns+` FROM volunteer`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return volunteers, nil
}

// InsertVolunteer inserts a new volunteer record
func (d *DB) InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteer (`+volunteerWriteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`, volunteerArgs(volunteer)...)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// UpdateVolunteer overwrites every field of an existing volunteer
func (d *DB) UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer SET
			full_name = $2, phone = $3, email = $4, volunteer_type = $5, members = $6,
			roles = $7, languages = $8, date = $9, available_time = $10, living_area = $11,
			operation_id = $12, operation_name = $13, assignment_status = $14,
			assigned_date = $15, assigned_by = $16, assigned_to = $17,
			assignment_notes = $18, notes = $19, role_keys = $20, language_keys = $21,
			updated_at = NOW()
		WHERE id = $1
	`, volunteerArgs(volunteer)...)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("volunteer %s: %w", volunteer.ID, db.ErrNotFound)
	}
	return nil
}

// DeleteVolunteer removes a volunteer record
func (d *DB) DeleteVolunteer(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM volunteer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// UpsertVolunteers inserts volunteers, replacing existing rows with the same ID
func (d *DB) UpsertVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	if len(volunteers) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range volunteers {
		_, err := tx.Exec(ctx, `
			INSERT INTO volunteer (`+volunteerWriteColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT (id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				phone = EXCLUDED.phone,
				email = EXCLUDED.email,
				volunteer_type = EXCLUDED.volunteer_type,
				members = EXCLUDED.members,
				roles = EXCLUDED.roles,
				languages = EXCLUDED.languages,
				date = EXCLUDED.date,
				available_time = EXCLUDED.available_time,
				living_area = EXCLUDED.living_area,
				operation_id = EXCLUDED.operation_id,
				operation_name = EXCLUDED.operation_name,
				assignment_status = EXCLUDED.assignment_status,
				assigned_date = EXCLUDED.assigned_date,
				assigned_by = EXCLUDED.assigned_by,
				assigned_to = EXCLUDED.assigned_to,
				assignment_notes = EXCLUDED.assignment_notes,
				notes = EXCLUDED.notes,
				role_keys = EXCLUDED.role_keys,
				language_keys = EXCLUDED.language_keys,
				updated_at = NOW()
		`, volunteerArgs(&volunteers[i])...)
		if err != nil {
			return fmt.Errorf("failed to upsert volunteer %s: %w", volunteers[i].ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// volunteerFilter builds the WHERE clause for a query. Role and language containment
// runs against the folded key columns so it agrees with the engine's facets.
func volunteerFilter(q db.VolunteerQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if roles := engine.FoldSet(q.Roles); len(roles) > 0 {
		add("role_keys @> $%d::text[]", roles)
	}
	if languages := engine.FoldSet(q.Languages); len(languages) > 0 {
		add("language_keys @> $%d::text[]", languages)
	}
	if len(q.AvailableTime) > 0 {
		add("available_time @> $%d::text[]", slotsToStrings(q.AvailableTime))
	}
	if !q.DateFrom.IsZero() {
		add("date >= $%d::date", q.DateFrom.Format(time.DateOnly))
	}
	if q.AssignedState != "" {
		add("assignment_status = $%d", string(q.AssignedState))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanVolunteer(row pgx.Row) (model.Volunteer, error) {
	var (
		v             model.Volunteer
		volunteerType string
		status        string
		slots         []string
		date          *time.Time
		assignedDate  *time.Time
	)
	err := row.Scan(
		&v.ID, &v.FullName, &v.Phone, &v.Email, &volunteerType, &v.Members, &v.Roles, &v.Languages,
		&date, &slots, &v.LivingArea, &v.OperationID, &v.OperationName, &status,
		&assignedDate, &v.AssignedBy, &v.AssignedTo, &v.AssignmentNotes, &v.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return v, db.ErrNotFound
		}
		return v, fmt.Errorf("failed to scan volunteer: %w", err)
	}

	v.VolunteerType = model.VolunteerType(volunteerType)
	v.AssignmentStatus = model.AssignmentStatus(status)
	for _, s := range slots {
		v.AvailableTime = append(v.AvailableTime, model.TimeSlot(s))
	}
	if date != nil {
		v.Date = *date
	}
	if assignedDate != nil {
		v.AssignedDate = assignedDate.UTC()
	}

	return v, nil
}

func volunteerArgs(v *model.Volunteer) []any {
	var date, assignedDate *time.Time
	if !v.Date.IsZero() {
		date = &v.Date
	}
	if !v.AssignedDate.IsZero() {
		t := v.AssignedDate.UTC()
		assignedDate = &t
	}

	status := v.AssignmentStatus
	if status == "" {
		status = model.StatusNotAssigned
	}

	return []any{
		v.ID, v.FullName, v.Phone, v.Email, string(v.VolunteerType), v.Members,
		nonNil(v.Roles), nonNil(v.Languages), date, slotsToStrings(v.AvailableTime), v.LivingArea,
		v.OperationID, v.OperationName, string(status),
		assignedDate, v.AssignedBy, v.AssignedTo, v.AssignmentNotes, v.Notes,
		engine.FoldSet(v.Roles), engine.FoldSet(v.Languages),
	}
}

func slotsToStrings(slots []model.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, string(s))
	}
	return out
}

// NOT NULL array columns reject a nil slice, which pgx encodes as NULL
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
