package packages

import (
	"context"
	"regexp"

	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
)

type PackageUseCase interface {
	List(ctx context.Context, filter repository.PackageFilter) ([]domain.SafariPackage, error)
	Get(ctx context.Context, idOrSlug string) (*domain.SafariPackage, error)
}

type Cache interface {
	GetPackages(ctx context.Context) ([]domain.SafariPackage, error)
	SetPackages(ctx context.Context, packages []domain.SafariPackage) error
}

type PackageService struct {
	repo  repository.PackageRepository
	cache Cache
}

func NewPackageService(repo repository.PackageRepository, cache Cache) *PackageService {
	return &PackageService{repo: repo, cache: cache}
}

// Only the unfiltered catalogue goes through the cache; filtered queries are
// cheap enough to hit the database.
func (s *PackageService) List(ctx context.Context, filter repository.PackageFilter) ([]domain.SafariPackage, error) {
	cacheable := filter == repository.PackageFilter{}
	if cacheable && s.cache != nil {
		if cached, err := s.cache.GetPackages(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	packages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if cacheable && s.cache != nil {
		_ = s.cache.SetPackages(ctx, packages)
	}
	return packages, nil
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Get resolves a package by identifier or slug; the uuid shape decides
// which column is queried.
func (s *PackageService) Get(ctx context.Context, idOrSlug string) (*domain.SafariPackage, error) {
	if uuidPattern.MatchString(idOrSlug) {
		return s.repo.GetByID(ctx, idOrSlug)
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

var _ PackageUseCase = (*PackageService)(nil)
