package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magicalboonies/safaribook/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	FindByUserAndPackage(ctx context.Context, userID, packageID string) (*domain.Review, error)
	ListApprovedByPackage(ctx context.Context, packageID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
}

const reviewColumns = `id, package_id, user_id, rating, title, comment, name, email, is_approved, is_verified, submitted_at, updated_at`

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &PGReviewRepository{db: db}
}

func (r *PGReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.QueryRow(ctx, `INSERT INTO reviews (id, package_id, user_id, rating, title, comment, name, email, is_approved, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING submitted_at, updated_at`,
		review.ID, review.PackageID, review.UserID, review.Rating, review.Title, review.Comment, review.Name, review.Email, review.IsApproved, review.IsVerified).
		Scan(&review.SubmittedAt, &review.UpdatedAt)
}

// Update rewrites an existing review in place. submitted_at is deliberately
// left untouched.
func (r *PGReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return r.db.QueryRow(ctx, `UPDATE reviews
		SET rating=$1, title=$2, comment=$3, name=$4, email=$5, is_approved=$6, is_verified=$7, updated_at=now()
		WHERE id=$8
		RETURNING submitted_at, updated_at`,
		review.Rating, review.Title, review.Comment, review.Name, review.Email, review.IsApproved, review.IsVerified, review.ID).
		Scan(&review.SubmittedAt, &review.UpdatedAt)
}

func (r *PGReviewRepository) FindByUserAndPackage(ctx context.Context, userID, packageID string) (*domain.Review, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND package_id=$2`, userID, packageID)
	rv, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rv, err
}

func (r *PGReviewRepository) ListApprovedByPackage(ctx context.Context, packageID string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE package_id=$1 AND is_approved=true ORDER BY submitted_at DESC`, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

func (r *PGReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 ORDER BY submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.PackageID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment, &rv.Name, &rv.Email, &rv.IsApproved, &rv.IsVerified, &rv.SubmittedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
