package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ak1ra777/LeadFlow-demo/models"

	_ "github.com/lib/pq"
)

// Expected schema:
//
//	CREATE TABLE leads (
//	    id SERIAL PRIMARY KEY,
//	    name TEXT NOT NULL,
//	    phone TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE UNIQUE INDEX leads_identity_key ON leads (LOWER(name), phone);
//
// The unique index keeps concurrent duplicate submissions down to a single
// stored row even across processes.

type LeadRepository interface {
	InsertLead(ctx context.Context, name, phone string) error
	ListLeads(ctx context.Context) ([]models.Lead, error)
	Close() error
}

type PostgresLeadRepository struct {
	db *sql.DB
}

func NewPostgresLeadRepository(databaseURL string) (*PostgresLeadRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresLeadRepository{db: db}, nil
}

func (r *PostgresLeadRepository) InsertLead(ctx context.Context, name, phone string) error {
	query := `
		INSERT INTO leads (name, phone)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, name, phone); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

func (r *PostgresLeadRepository) ListLeads(ctx context.Context) ([]models.Lead, error) {
	query := `
		SELECT id, name, phone, created_at
		FROM leads
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Phone, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}

	return leads, nil
}

func (r *PostgresLeadRepository) Close() error {
	return r.db.Close()
}
