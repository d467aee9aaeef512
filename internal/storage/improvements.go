package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

const improvementColumns = `id, resume_id, improved_content, created_at`

func scanImprovement(row rowScanner) (*models.Improvement, error) {
	i := &models.Improvement{}
	if err := row.Scan(&i.ID, &i.ResumeID, &i.ImprovedContent, &i.CreatedAt); err != nil {
		return nil, err
	}
	return i, nil
}

// ImproveResume в одной транзакции блокирует резюме владельца, заменяет его
// содержимое результатом transform и сохраняет снимок в истории улучшений.
func (s *Storage) ImproveResume(ctx context.Context, id, ownerID int64,
	transform func(content string) string) (*models.Resume, *models.Improvement, error) {
	const op = "storage.ImproveResume"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		resume      *models.Resume
		improvement *models.Improvement
	)
	err := s.WithTx(ctx, func(tx *Storage) error {
		var content string
		lockQuery := `SELECT content FROM resumes WHERE id = $1 AND owner_id = $2 FOR UPDATE`
		if err := tx.db.QueryRowContext(ctx, lockQuery, id, ownerID).Scan(&content); err != nil {
			return wrapErr(op, err)
		}

		improved := transform(content)

		updateQuery := `UPDATE resumes
				  SET content = $1, updated_at = now()
				  WHERE id = $2 AND owner_id = $3
				  RETURNING ` + resumeColumns
		r, err := scanResume(tx.db.QueryRowContext(ctx, updateQuery, improved, id, ownerID))
		if err != nil {
			return wrapErr(op, err)
		}

		insertQuery := `INSERT INTO resume_improvements (resume_id, improved_content)
				  VALUES ($1, $2)
				  RETURNING ` + improvementColumns
		imp, err := scanImprovement(tx.db.QueryRowContext(ctx, insertQuery, id, improved))
		if err != nil {
			return wrapErr(op, err)
		}

		resume, improvement = r, imp
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resume, improvement, nil
}

// ListImprovements возвращает историю улучшений резюме владельца, новые первыми.
func (s *Storage) ListImprovements(ctx context.Context, resumeID, ownerID int64) ([]*models.Improvement, error) {
	const op = "storage.ListImprovements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT i.id, i.resume_id, i.improved_content, i.created_at
			  FROM resume_improvements i
			  JOIN resumes r ON r.id = i.resume_id
			  WHERE i.resume_id = $1 AND r.owner_id = $2
			  ORDER BY i.created_at DESC, i.id DESC`
	rows, err := s.db.QueryContext(ctx, query, resumeID, ownerID)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Improvement, 0)
	for rows.Next() {
		imp, err := scanImprovement(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, imp)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}
