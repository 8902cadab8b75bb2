package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/magicalboonies/safaribook/internal/captcha"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
)

type ReviewUseCase interface {
	Submit(ctx context.Context, user domain.User, input SubmitReviewInput) (*SubmitResult, error)
	ListApproved(ctx context.Context, packageID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
}

type SubmitReviewInput struct {
	PackageID    string
	Rating       int
	Title        string
	Comment      string
	Name         string
	Email        string
	CaptchaToken string
	RemoteIP     string
}

type SubmitResult struct {
	Review  *domain.Review
	Created bool
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	packages repository.PackageRepository
	captcha  captcha.Verifier
}

func NewReviewService(reviews repository.ReviewRepository, packages repository.PackageRepository, verifier captcha.Verifier) *ReviewService {
	return &ReviewService{reviews: reviews, packages: packages, captcha: verifier}
}

// Submit upserts the caller's review of a package: at most one review per
// (user, package) pair. A re-submission rewrites the existing row in place,
// keeping its id and original submission timestamp, and drops back to
// unapproved until re-moderated.
func (s *ReviewService) Submit(ctx context.Context, user domain.User, input SubmitReviewInput) (*SubmitResult, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	if input.Title == "" || input.Comment == "" {
		return nil, errors.New("title and comment are required")
	}

	if err := s.captcha.Verify(ctx, input.CaptchaToken, input.RemoteIP); err != nil {
		return nil, err
	}

	if _, err := s.packages.GetByID(ctx, input.PackageID); err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = user.FullName()
	}
	email := input.Email
	if email == "" {
		email = user.Email
	}

	existing, err := s.reviews.FindByUserAndPackage(ctx, user.ID, input.PackageID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Rating = input.Rating
		existing.Title = input.Title
		existing.Comment = input.Comment
		existing.Name = name
		existing.Email = email
		existing.IsApproved = false
		existing.IsVerified = false
		if err := s.reviews.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &SubmitResult{Review: existing, Created: false}, nil
	}

	review := &domain.Review{
		ID:         uuid.NewString(),
		PackageID:  input.PackageID,
		UserID:     user.ID,
		Rating:     input.Rating,
		Title:      input.Title,
		Comment:    input.Comment,
		Name:       name,
		Email:      email,
		IsApproved: false,
		IsVerified: false,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return &SubmitResult{Review: review, Created: true}, nil
}

func (s *ReviewService) ListApproved(ctx context.Context, packageID string) ([]domain.Review, error) {
	return s.reviews.ListApprovedByPackage(ctx, packageID)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

var _ ReviewUseCase = (*ReviewService)(nil)
