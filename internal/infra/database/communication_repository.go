package database

import (
	"context"
	"database/sql"

	"github.com/quizmed/leadgen/internal/entity"
)

type CommunicationRepository struct {
	DB *sql.DB
}

func NewCommunicationRepository(db *sql.DB) *CommunicationRepository {
	return &CommunicationRepository{DB: db}
}

// CreateBatch writes all fan-out outcomes for one lead in a single
// transaction so the audit trail is whole or absent, never partial.
func (r *CommunicationRepository) CreateBatch(ctx context.Context, comms []*entity.Communication) error {
	if len(comms) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO lead_communications
			(id, lead_id, channel, kind, recipient, message, status,
			 provider_id, provider_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range comms {
		_, err := stmt.ExecContext(ctx,
			c.ID,
			c.LeadID,
			c.Channel,
			c.Kind,
			nullString(c.Recipient),
			nullString(c.Message),
			c.Status,
			nullString(c.ProviderID),
			nullString(c.ProviderError),
			c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *CommunicationRepository) FindByLeadID(ctx context.Context, leadID string) ([]*entity.Communication, error) {
	query := `
		SELECT id, lead_id, channel, kind, COALESCE(recipient, ''),
		       COALESCE(message, ''), status, COALESCE(provider_id, ''),
		       COALESCE(provider_error, ''), created_at
		FROM lead_communications
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comms []*entity.Communication
	for rows.Next() {
		c := &entity.Communication{}
		err := rows.Scan(
			&c.ID,
			&c.LeadID,
			&c.Channel,
			&c.Kind,
			&c.Recipient,
			&c.Message,
			&c.Status,
			&c.ProviderID,
			&c.ProviderError,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comms = append(comms, c)
	}

	return comms, rows.Err()
}
