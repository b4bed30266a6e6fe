package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quizmed/leadgen/internal/entity"
)

var ErrContactExists = errors.New("contact already exists")

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts
			(id, doctor_id, name, email, phone, notes, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	tagsJSON, err := json.Marshal(contact.Tags)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		contact.ID,
		contact.DoctorID,
		contact.Name,
		nullString(contact.Email),
		nullString(contact.Phone),
		nullString(contact.Notes),
		string(tagsJSON),
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrContactExists
		}

		log.Printf("❌ contact insert failed: %v", err)
		return err
	}

	return nil
}

func (r *ContactRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]*entity.Contact, error) {
	query := `
		SELECT id, doctor_id, name, COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(notes, ''), COALESCE(tags, '[]'), created_at, updated_at
		FROM contacts
		WHERE doctor_id = $1
		ORDER BY name ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*entity.Contact
	for rows.Next() {
		c := &entity.Contact{}
		var tagsJSON string

		err := rows.Scan(
			&c.ID,
			&c.DoctorID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Notes,
			&tagsJSON,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
			log.Printf("⚠️ bad tags payload on contact %s: %v", c.ID, err)
		}

		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
