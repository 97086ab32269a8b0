package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notemind-backend/internal/models"
)

type QuizResultRepo struct {
	pool *pgxpool.Pool
}

func NewQuizResultRepo(pool *pgxpool.Pool) *QuizResultRepo {
	return &QuizResultRepo{pool: pool}
}

// Create inserts the result row and its document associations in one
// transaction. Either everything lands or nothing does.
func (r *QuizResultRepo) Create(ctx context.Context, res *models.QuizResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO quiz_results
		(quiz_id, user_id, question_count, question_type, difficulty,
		 total_questions, correct_answers, score_percentage,
		 questions_data, corrections_data, overall_feedback, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err = tx.QueryRow(ctx, query,
		res.QuizID, res.UserID, res.QuestionCount, res.QuestionType, res.Difficulty,
		res.TotalQuestions, res.CorrectAnswers, res.ScorePercentage,
		res.QuestionsData, res.CorrectionsData, res.OverallFeedback, res.CompletedAt,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return err
	}

	for _, docID := range res.DocumentIDs {
		_, err = tx.Exec(ctx,
			"INSERT INTO quiz_result_documents (quiz_result_id, document_id) VALUES ($1, $2)",
			res.ID, docID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID returns a result scoped to its owner. Results belonging to
// other users look like missing rows.
func (r *QuizResultRepo) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*models.QuizResult, error) {
	query := `SELECT id, quiz_id, user_id, question_count, question_type, difficulty,
		total_questions, correct_answers, score_percentage,
		questions_data, corrections_data, overall_feedback, completed_at, created_at
		FROM quiz_results WHERE id = $1 AND user_id = $2`

	res, err := r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}
	res.DocumentIDs, err = r.documentIDs(ctx, res.ID)
	return res, err
}

// GetByQuizID resolves a result by the originating quiz identifier,
// scoped to its owner.
func (r *QuizResultRepo) GetByQuizID(ctx context.Context, quizID string, userID uuid.UUID) (*models.QuizResult, error) {
	query := `SELECT id, quiz_id, user_id, question_count, question_type, difficulty,
		total_questions, correct_answers, score_percentage,
		questions_data, corrections_data, overall_feedback, completed_at, created_at
		FROM quiz_results WHERE quiz_id = $1 AND user_id = $2
		ORDER BY completed_at DESC LIMIT 1`

	res, err := r.scanOne(r.pool.QueryRow(ctx, query, quizID, userID))
	if err != nil {
		return nil, err
	}
	res.DocumentIDs, err = r.documentIDs(ctx, res.ID)
	return res, err
}

// ListByUser returns result summaries newest-first.
func (r *QuizResultRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.QuizResult, error) {
	query := `SELECT id, quiz_id, user_id, question_count, question_type, difficulty,
		total_questions, correct_answers, score_percentage,
		questions_data, corrections_data, overall_feedback, completed_at, created_at
		FROM quiz_results WHERE user_id = $1
		ORDER BY completed_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.QuizResult
	for rows.Next() {
		res := &models.QuizResult{}
		err := rows.Scan(
			&res.ID, &res.QuizID, &res.UserID, &res.QuestionCount, &res.QuestionType, &res.Difficulty,
			&res.TotalQuestions, &res.CorrectAnswers, &res.ScorePercentage,
			&res.QuestionsData, &res.CorrectionsData, &res.OverallFeedback, &res.CompletedAt, &res.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.DocumentIDs, err = r.documentIDs(ctx, res.ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (r *QuizResultRepo) scanOne(row pgx.Row) (*models.QuizResult, error) {
	res := &models.QuizResult{}
	err := row.Scan(
		&res.ID, &res.QuizID, &res.UserID, &res.QuestionCount, &res.QuestionType, &res.Difficulty,
		&res.TotalQuestions, &res.CorrectAnswers, &res.ScorePercentage,
		&res.QuestionsData, &res.CorrectionsData, &res.OverallFeedback, &res.CompletedAt, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *QuizResultRepo) documentIDs(ctx context.Context, resultID int64) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT document_id FROM quiz_result_documents WHERE quiz_result_id = $1", resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsNotFound reports whether err is the no-rows lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
