package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quizmed/leadgen/internal/entity"
)

type DoctorRepository struct {
	DB *sql.DB
}

func NewDoctorRepository(db *sql.DB) *DoctorRepository {
	return &DoctorRepository{DB: db}
}

// FindByID resolves a profile by row id or account id. Old mobile
// clients managed to create duplicate rows per account, so the query
// keeps the oldest row, which is what the dashboard always showed.
func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*entity.DoctorProfile, error) {
	query := `
		SELECT id, account_id, practice_name, COALESCE(doctor_name, ''),
		       COALESCE(specialty, ''), COALESCE(logo_url, ''),
		       COALESCE(notify_email, ''), COALESCE(notify_phone, ''),
		       COALESCE(email_prefix, ''),
		       COALESCE(twilio_sid, ''), COALESCE(twilio_token, ''),
		       COALESCE(twilio_from, ''),
		       created_at, updated_at
		FROM doctor_profiles
		WHERE id = $1 OR account_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	d := &entity.DoctorProfile{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.AccountID,
		&d.PracticeName,
		&d.DoctorName,
		&d.Specialty,
		&d.LogoURL,
		&d.NotifyEmail,
		&d.NotifyPhone,
		&d.EmailPrefix,
		&d.TwilioSID,
		&d.TwilioToken,
		&d.TwilioFrom,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *DoctorRepository) Upsert(ctx context.Context, profile *entity.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles
			(id, account_id, practice_name, doctor_name, specialty, logo_url,
			 notify_email, notify_phone, email_prefix,
			 twilio_sid, twilio_token, twilio_from,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (account_id)
		DO UPDATE SET
			practice_name = EXCLUDED.practice_name,
			doctor_name   = EXCLUDED.doctor_name,
			specialty     = EXCLUDED.specialty,
			logo_url      = EXCLUDED.logo_url,
			notify_email  = EXCLUDED.notify_email,
			notify_phone  = EXCLUDED.notify_phone,
			email_prefix  = EXCLUDED.email_prefix,
			twilio_sid    = EXCLUDED.twilio_sid,
			twilio_token  = COALESCE(EXCLUDED.twilio_token, doctor_profiles.twilio_token),
			twilio_from   = EXCLUDED.twilio_from,
			updated_at    = NOW()
	`

	_, err := r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.PracticeName,
		nullString(profile.DoctorName),
		nullString(profile.Specialty),
		nullString(profile.LogoURL),
		nullString(profile.NotifyEmail),
		nullString(profile.NotifyPhone),
		nullString(profile.EmailPrefix),
		nullString(profile.TwilioSID),
		nullString(profile.TwilioToken),
		nullString(profile.TwilioFrom),
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Duplicate id from a concurrent upsert. The conflict target
			// already handled the account; nothing to do.
			return nil
		}

		log.Printf("❌ doctor profile upsert failed: %v", err)
		return err
	}

	return nil
}
