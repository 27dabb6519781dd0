package boxes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/dbx"
	"github.com/boxdrop/boxdrop/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, box *models.Box) (*models.Box, error) {

	query :=
		`INSERT INTO boxes (user_id, x, y, image_ref, location_city)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var imageRef sql.NullString
	if box.ImageRef != "" {
		imageRef = sql.NullString{String: box.ImageRef, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		box.UserID, box.X, box.Y, imageRef, box.LocationCity).Scan(&box.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("user %q: %w", box.UserID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return box, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Box, error) {
	query :=
		`SELECT id, user_id, x, y, image_ref, location_city FROM boxes
		 WHERE user_id = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Box{}
	for rows.Next() {
		var box models.Box
		var imageRef sql.NullString
		if err := rows.Scan(&box.ID, &box.UserID, &box.X, &box.Y, &imageRef, &box.LocationCity); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		box.ImageRef = imageRef.String
		result = append(result, box)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM boxes WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
