package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for request storage
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	statements := []string{
		createRequestsTable,
		createRequestsIndexes,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

const createRequestsTable = `
CREATE TABLE IF NOT EXISTS requests (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	status VARCHAR(50) NOT NULL DEFAULT 'submitted',
	request_type VARCHAR(20) NOT NULL CHECK (request_type IN ('prescription', 'exam', 'consultation')),
	patient_id UUID NOT NULL,
	doctor_id UUID,
	patient_name VARCHAR(255),
	doctor_name VARCHAR(255),
	medications TEXT[],
	exams TEXT[],
	symptoms TEXT,
	price DECIMAL(10,2),
	ai_risk_level VARCHAR(10) CHECK (ai_risk_level IN ('low', 'medium', 'high')),
	signed_at TIMESTAMP WITH TIME ZONE,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createRequestsIndexes = `
CREATE INDEX IF NOT EXISTS idx_requests_patient_id ON requests(patient_id);
CREATE INDEX IF NOT EXISTS idx_requests_doctor_id ON requests(doctor_id);
CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);`
