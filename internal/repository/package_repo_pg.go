package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magicalboonies/safaribook/internal/domain"
)

var ErrNotFound = errors.New("not found")

type PackageFilter struct {
	DestinationCategory string
	PackageCategory     string
	Limit               int
}

type PackageRepository interface {
	List(ctx context.Context, filter PackageFilter) ([]domain.SafariPackage, error)
	GetByID(ctx context.Context, id string) (*domain.SafariPackage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.SafariPackage, error)
}

const packageColumns = `id, slug, title, duration, group_size, overview, itinerary_highlights, inclusions, exclusions, best_travel_season, price_cents, tags, rating, image_url, destination_category, package_category, created_at, updated_at`

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

func (r *PGPackageRepository) List(ctx context.Context, filter PackageFilter) ([]domain.SafariPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM safari_packages`
	args := []any{}
	if filter.DestinationCategory != "" {
		args = append(args, filter.DestinationCategory)
		query += ` WHERE destination_category=$` + strconv.Itoa(len(args))
	}
	if filter.PackageCategory != "" {
		args = append(args, filter.PackageCategory)
		if len(args) == 1 {
			query += ` WHERE package_category=$1`
		} else {
			query += ` AND package_category=$2`
		}
	}
	query += ` ORDER BY title`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.SafariPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id string) (*domain.SafariPackage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM safari_packages WHERE id=$1`, id)
	return scanPackageRow(row)
}

func (r *PGPackageRepository) GetBySlug(ctx context.Context, slug string) (*domain.SafariPackage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM safari_packages WHERE slug=$1`, slug)
	return scanPackageRow(row)
}

func scanPackageRow(row pgx.Row) (*domain.SafariPackage, error) {
	p, err := scanPackage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPackage(row pgx.Row) (*domain.SafariPackage, error) {
	var p domain.SafariPackage
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Duration, &p.GroupSize, &p.Overview, &p.ItineraryHighlights, &p.Inclusions, &p.Exclusions, &p.BestTravelSeason, &p.PriceCents, &p.Tags, &p.Rating, &p.ImageURL, &p.DestinationCategory, &p.PackageCategory, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PackageRepository = (*PGPackageRepository)(nil)
