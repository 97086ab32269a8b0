package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"notemind-backend/internal/models"
)

type SharedQuizRepo struct {
	pool *pgxpool.Pool
}

func NewSharedQuizRepo(pool *pgxpool.Pool) *SharedQuizRepo {
	return &SharedQuizRepo{pool: pool}
}

func (r *SharedQuizRepo) Create(ctx context.Context, s *models.SharedQuiz) error {
	query := `INSERT INTO shared_quizzes
		(share_token, quiz_id, user_id, questions_data, correct_answers_data,
		 question_count, question_type, difficulty, title, description, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, view_count, completion_count, is_active, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ShareToken, s.QuizID, s.UserID, s.QuestionsData, s.AnswersData,
		s.QuestionCount, s.QuestionType, s.Difficulty, s.Title, s.Description, s.ExpiresAt,
	).Scan(&s.ID, &s.ViewCount, &s.CompletionCount, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SharedQuizRepo) GetByToken(ctx context.Context, token string) (*models.SharedQuiz, error) {
	s := &models.SharedQuiz{}
	query := `SELECT id, share_token, quiz_id, user_id, questions_data, correct_answers_data,
		question_count, question_type, difficulty, title, description,
		view_count, completion_count, is_active, expires_at, created_at, updated_at
		FROM shared_quizzes WHERE share_token = $1`

	err := r.pool.QueryRow(ctx, query, token).Scan(
		&s.ID, &s.ShareToken, &s.QuizID, &s.UserID, &s.QuestionsData, &s.AnswersData,
		&s.QuestionCount, &s.QuestionType, &s.Difficulty, &s.Title, &s.Description,
		&s.ViewCount, &s.CompletionCount, &s.IsActive, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IncrementViewCount bumps the view counter. A single UPDATE keeps the
// increment atomic under concurrent public access.
func (r *SharedQuizRepo) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE shared_quizzes SET view_count = view_count + 1, updated_at = NOW() WHERE id = $1", id)
	return err
}

// IncrementCompletionCount bumps the completion counter atomically.
func (r *SharedQuizRepo) IncrementCompletionCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE shared_quizzes SET completion_count = completion_count + 1, updated_at = NOW() WHERE id = $1", id)
	return err
}

// Delete removes a share owned by the given user. Returns the number of
// rows removed so the caller can distinguish missing from deleted.
func (r *SharedQuizRepo) Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM shared_quizzes WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
