package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"notemind-backend/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

// GetOwnedByIDs returns the caller's documents among the given IDs.
// Documents owned by other users are simply absent from the result, the
// same as missing ones.
func (r *DocumentRepo) GetOwnedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*models.Document, error) {
	query := `SELECT id, user_id, filename, status, gemini_file_id, created_at
		FROM documents WHERE user_id = $1 AND id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d := &models.Document{}
		err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &d.Status, &d.GeminiFileID, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
