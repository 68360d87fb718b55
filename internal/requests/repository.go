package requests

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/vidalink/telemed/pkg/database"
	"github.com/vidalink/telemed/pkg/interfaces"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/types"
)

// Repository implements the RequestRepository interface on Postgres
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new request repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.RequestRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const requestColumns = `
	id, status, request_type, patient_id,
	COALESCE(doctor_id, ''), COALESCE(patient_name, ''), COALESCE(doctor_name, ''),
	COALESCE(medications, '{}'), COALESCE(exams, '{}'),
	COALESCE(symptoms, ''), COALESCE(price, 0), COALESCE(ai_risk_level, ''),
	signed_at, created_at, updated_at`

// Create inserts a new request
func (r *Repository) Create(ctx context.Context, req *types.Request) error {
	query := `
		INSERT INTO requests (
			id, status, request_type, patient_id, doctor_id, patient_name,
			doctor_name, medications, exams, symptoms, price, ai_risk_level,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.Status,
		string(req.RequestType),
		req.PatientID,
		req.DoctorID,
		req.PatientName,
		req.DoctorName,
		pq.Array(req.Medications),
		pq.Array(req.Exams),
		req.Symptoms,
		req.Price,
		string(req.AIRiskLevel),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.WithError(err).WithField("request_id", req.ID).Error("Failed to create request")
		return fmt.Errorf("failed to create request: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"request_id":   req.ID,
		"request_type": req.RequestType,
		"patient_id":   req.PatientID,
	}).Info("Created request")
	return nil
}

// GetByID retrieves a request by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1`, requestColumns)

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("request", id)
		}
		r.logger.WithError(err).WithField("request_id", id).Error("Failed to get request")
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// List retrieves requests matching the filters, oldest first. The stored
// order is the order clients render, so only created_at decides it.
func (r *Repository) List(ctx context.Context, filters *types.RequestFilters) (*types.RequestPage, error) {
	where := []string{}
	args := []interface{}{}
	argIndex := 1

	if filters.PatientID != "" {
		where = append(where, fmt.Sprintf("patient_id = $%d", argIndex))
		args = append(args, filters.PatientID)
		argIndex++
	}
	if filters.DoctorID != "" {
		if filters.IncludeUnassigned {
			where = append(where, fmt.Sprintf("(doctor_id = $%d OR doctor_id IS NULL)", argIndex))
		} else {
			where = append(where, fmt.Sprintf("doctor_id = $%d", argIndex))
		}
		args = append(args, filters.DoctorID)
		argIndex++
	}
	if filters.RequestType != "" {
		where = append(where, fmt.Sprintf("request_type = $%d", argIndex))
		args = append(args, string(filters.RequestType))
		argIndex++
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filters.Status)
		argIndex++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM requests %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("Failed to count requests")
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM requests %s ORDER BY created_at ASC`, requestColumns, whereClause)
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list requests")
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	items := []*types.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}

	return &types.RequestPage{Items: items, TotalCount: total}, nil
}

// UpdateStatus applies a backend-driven mutation to a request
func (r *Repository) UpdateStatus(ctx context.Context, id string, updates *types.RequestUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *updates.Status)
		argIndex++
	}
	if updates.DoctorID != nil {
		setParts = append(setParts, fmt.Sprintf("doctor_id = $%d", argIndex))
		args = append(args, *updates.DoctorID)
		argIndex++
	}
	if updates.Price != nil {
		setParts = append(setParts, fmt.Sprintf("price = $%d", argIndex))
		args = append(args, *updates.Price)
		argIndex++
	}
	if updates.SignedAt != nil {
		setParts = append(setParts, fmt.Sprintf("signed_at = $%d", argIndex))
		args = append(args, *updates.SignedAt)
		argIndex++
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no updates provided")
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE requests SET %s WHERE id = $%d", strings.Join(setParts, ", "), argIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).WithField("request_id", id).Error("Failed to update request")
		return fmt.Errorf("failed to update request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError("request", id)
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*types.Request, error) {
	req := &types.Request{}
	var medications, exams pq.StringArray
	var signedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.Status,
		&req.RequestType,
		&req.PatientID,
		&req.DoctorID,
		&req.PatientName,
		&req.DoctorName,
		&medications,
		&exams,
		&req.Symptoms,
		&req.Price,
		&req.AIRiskLevel,
		&signedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Medications = medications
	req.Exams = exams
	if signedAt.Valid {
		t := signedAt.Time
		req.SignedAt = &t
	}

	return req, nil
}
