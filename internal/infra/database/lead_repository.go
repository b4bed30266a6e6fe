package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO quiz_leads
			(id, doctor_id, name, email, phone, quiz_type, score, severity,
			 answers, status, share_key, source, followed_up, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	answersJSON, err := json.Marshal(lead.Answers)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.DoctorID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.QuizType,
		lead.Score,
		nullString(lead.Severity),
		string(answersJSON),
		lead.Status,
		nullString(lead.ShareKey),
		nullString(lead.Source),
		lead.FollowedUp,
		lead.SubmittedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		log.Printf("❌ lead insert failed: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, doctor_id, name, email, phone, quiz_type, score,
		       COALESCE(severity, ''), answers, status,
		       COALESCE(share_key, ''), COALESCE(source, ''),
		       followed_up, submitted_at, updated_at
		FROM quiz_leads
		WHERE id = $1
	`

	return scanLead(r.DB.QueryRowContext(ctx, query, id))
}

func (r *LeadRepository) FindByDoctorID(ctx context.Context, doctorID string, limit int) ([]*entity.Lead, error) {
	if limit <= 0 {
		limit = 500
	}

	query := `
		SELECT id, doctor_id, name, email, phone, quiz_type, score,
		       COALESCE(severity, ''), answers, status,
		       COALESCE(share_key, ''), COALESCE(source, ''),
		       followed_up, submitted_at, updated_at
		FROM quiz_leads
		WHERE doctor_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, doctorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE quiz_leads
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClaimForFollowup flips followed_up on leads still NEW since before the
// cutoff and hands them back in one round trip, so two worker instances
// never follow up the same lead twice.
func (r *LeadRepository) ClaimForFollowup(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error) {
	query := `
		UPDATE quiz_leads
		SET followed_up = TRUE, updated_at = NOW()
		WHERE status = 'NEW'
		  AND followed_up = FALSE
		  AND submitted_at < $1
		RETURNING id, doctor_id, name, email, phone, quiz_type, score,
		          COALESCE(severity, ''), answers, status,
		          COALESCE(share_key, ''), COALESCE(source, ''),
		          followed_up, submitted_at, updated_at
	`

	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	lead := &entity.Lead{}
	var answersJSON string

	err := row.Scan(
		&lead.ID,
		&lead.DoctorID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.QuizType,
		&lead.Score,
		&lead.Severity,
		&answersJSON,
		&lead.Status,
		&lead.ShareKey,
		&lead.Source,
		&lead.FollowedUp,
		&lead.SubmittedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if answersJSON != "" {
		if err := json.Unmarshal([]byte(answersJSON), &lead.Answers); err != nil {
			log.Printf("⚠️ bad answers payload on lead %s: %v", lead.ID, err)
		}
	}

	return lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
