package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/quizmed/leadgen/internal/entity"
)

var ErrQuizNotFound = errors.New("custom quiz not found")

type CustomQuizRepository struct {
	DB *sql.DB
}

func NewCustomQuizRepository(db *sql.DB) *CustomQuizRepository {
	return &CustomQuizRepository{DB: db}
}

func (r *CustomQuizRepository) Create(ctx context.Context, quiz *entity.CustomQuiz) error {
	query := `
		INSERT INTO custom_quizzes
			(id, doctor_id, title, questions, max_answer, bands, share_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return err
	}
	bandsJSON, err := json.Marshal(quiz.Bands)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		quiz.ID,
		quiz.DoctorID,
		quiz.Title,
		string(questionsJSON),
		quiz.MaxAnswer,
		string(bandsJSON),
		quiz.ShareKey,
		quiz.CreatedAt,
	)

	if err != nil {
		log.Printf("❌ custom quiz insert failed: %v", err)
	}
	return err
}

func (r *CustomQuizRepository) FindByShareKey(ctx context.Context, shareKey string) (*entity.CustomQuiz, error) {
	query := `
		SELECT id, doctor_id, title, questions, max_answer, COALESCE(bands, '[]'), share_key, created_at
		FROM custom_quizzes
		WHERE share_key = $1
	`

	return scanCustomQuiz(r.DB.QueryRowContext(ctx, query, shareKey))
}

func (r *CustomQuizRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]*entity.CustomQuiz, error) {
	query := `
		SELECT id, doctor_id, title, questions, max_answer, COALESCE(bands, '[]'), share_key, created_at
		FROM custom_quizzes
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*entity.CustomQuiz
	for rows.Next() {
		quiz, err := scanCustomQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}

	return quizzes, rows.Err()
}

func scanCustomQuiz(row rowScanner) (*entity.CustomQuiz, error) {
	quiz := &entity.CustomQuiz{}
	var questionsJSON, bandsJSON string

	err := row.Scan(
		&quiz.ID,
		&quiz.DoctorID,
		&quiz.Title,
		&questionsJSON,
		&quiz.MaxAnswer,
		&bandsJSON,
		&quiz.ShareKey,
		&quiz.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(questionsJSON), &quiz.Questions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(bandsJSON), &quiz.Bands); err != nil {
		return nil, err
	}

	return quiz, nil
}
