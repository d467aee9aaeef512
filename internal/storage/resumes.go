package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

const resumeColumns = `id, title, content, owner_id, created_at, updated_at`

func scanResume(row rowScanner) (*models.Resume, error) {
	r := &models.Resume{}
	var updatedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.Title, &r.Content, &r.OwnerID, &r.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		r.UpdatedAt = &updatedAt.Time
	}
	return r, nil
}

// CreateResume вставляет новое резюме владельца и возвращает сохранённую запись.
func (s *Storage) CreateResume(ctx context.Context, ownerID int64, title, content string) (*models.Resume, error) {
	const op = "storage.CreateResume"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO resumes (title, content, owner_id)
			  VALUES ($1, $2, $3)
			  RETURNING ` + resumeColumns
	r, err := scanResume(s.db.QueryRowContext(ctx, query, title, content, ownerID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return r, nil
}

// GetResume возвращает резюме по ID, если оно принадлежит владельцу.
func (s *Storage) GetResume(ctx context.Context, id, ownerID int64) (*models.Resume, error) {
	const op = "storage.GetResume"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND owner_id = $2`
	r, err := scanResume(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return r, nil
}

// ListResumes возвращает все резюме владельца в порядке создания.
func (s *Storage) ListResumes(ctx context.Context, ownerID int64) ([]*models.Resume, error) {
	const op = "storage.ListResumes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE owner_id = $1 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Resume, 0)
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// UpdateResume полностью заменяет заголовок и содержимое резюме владельца
// и обновляет updated_at.
func (s *Storage) UpdateResume(ctx context.Context, id, ownerID int64, title, content string) (*models.Resume, error) {
	const op = "storage.UpdateResume"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE resumes
			  SET title = $1, content = $2, updated_at = now()
			  WHERE id = $3 AND owner_id = $4
			  RETURNING ` + resumeColumns
	r, err := scanResume(s.db.QueryRowContext(ctx, query, title, content, id, ownerID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return r, nil
}

// DeleteResume удаляет резюме владельца вместе со всеми улучшениями (ON DELETE CASCADE).
func (s *Storage) DeleteResume(ctx context.Context, id, ownerID int64) error {
	const op = "storage.DeleteResume"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return wrapErr(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
