package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/magicalboonies/safaribook/internal/captcha"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByUserAndPackage(ctx context.Context, userID, packageID string) (*domain.Review, error) {
	args := m.Called(ctx, userID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListApprovedByPackage(ctx context.Context, packageID string) ([]domain.Review, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) List(ctx context.Context, filter repository.PackageFilter) ([]domain.SafariPackage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SafariPackage), args.Error(1)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id string) (*domain.SafariPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafariPackage), args.Error(1)
}

func (m *MockPackageRepository) GetBySlug(ctx context.Context, slug string) (*domain.SafariPackage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafariPackage), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	args := m.Called(ctx, token, remoteIP)
	return args.Error(0)
}

func newTestService() (*ReviewService, *MockReviewRepository, *MockPackageRepository, *MockVerifier) {
	reviews := &MockReviewRepository{}
	packages := &MockPackageRepository{}
	verifier := &MockVerifier{}
	return NewReviewService(reviews, packages, verifier), reviews, packages, verifier
}

func testUser() domain.User {
	return domain.User{ID: "user-1", Email: "traveler@example.com", FirstName: "Jane", LastName: "Doe"}
}

func validInput() SubmitReviewInput {
	return SubmitReviewInput{
		PackageID:    "pkg-1",
		Rating:       5,
		Title:        "Unforgettable",
		Comment:      "Saw the full migration.",
		CaptchaToken: "tok",
		RemoteIP:     "1.2.3.4",
	}
}

func TestReviewService_Submit_CreatesNewReview(t *testing.T) {
	service, reviews, packages, verifier := newTestService()
	ctx := context.Background()

	verifier.On("Verify", ctx, "tok", "1.2.3.4").Return(nil).Once()
	packages.On("GetByID", ctx, "pkg-1").Return(&domain.SafariPackage{ID: "pkg-1"}, nil).Once()
	reviews.On("FindByUserAndPackage", ctx, "user-1", "pkg-1").Return(nil, repository.ErrNotFound).Once()
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()

	result, err := service.Submit(ctx, testUser(), validInput())

	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "user-1", result.Review.UserID)
	assert.Equal(t, "Jane Doe", result.Review.Name)
	assert.Equal(t, "traveler@example.com", result.Review.Email)
	assert.False(t, result.Review.IsApproved)
	assert.False(t, result.Review.IsVerified)
	reviews.AssertExpectations(t)
}

func TestReviewService_Submit_UpdatesExistingReview(t *testing.T) {
	service, reviews, packages, verifier := newTestService()
	ctx := context.Background()

	submittedAt := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := &domain.Review{
		ID:          "review-1",
		PackageID:   "pkg-1",
		UserID:      "user-1",
		Rating:      3,
		Title:       "Decent",
		IsApproved:  true,
		SubmittedAt: submittedAt,
	}

	verifier.On("Verify", ctx, "tok", "1.2.3.4").Return(nil).Once()
	packages.On("GetByID", ctx, "pkg-1").Return(&domain.SafariPackage{ID: "pkg-1"}, nil).Once()
	reviews.On("FindByUserAndPackage", ctx, "user-1", "pkg-1").Return(existing, nil).Once()
	reviews.On("Update", ctx, existing).Return(nil).Once()

	result, err := service.Submit(ctx, testUser(), validInput())

	assert.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "review-1", result.Review.ID)
	assert.Equal(t, 5, result.Review.Rating)
	assert.Equal(t, "Unforgettable", result.Review.Title)
	// Re-submission keeps the original timestamp and resets moderation.
	assert.Equal(t, submittedAt, result.Review.SubmittedAt)
	assert.False(t, result.Review.IsApproved)
	reviews.AssertNotCalled(t, "Create")
}

func TestReviewService_Submit_CaptchaFails(t *testing.T) {
	service, reviews, _, verifier := newTestService()
	ctx := context.Background()

	verifier.On("Verify", ctx, "tok", "1.2.3.4").Return(captcha.ErrVerificationFailed).Once()

	result, err := service.Submit(ctx, testUser(), validInput())

	assert.ErrorIs(t, err, captcha.ErrVerificationFailed)
	assert.Nil(t, result)
	reviews.AssertNotCalled(t, "Create")
	reviews.AssertNotCalled(t, "Update")
}

func TestReviewService_Submit_UnknownPackage(t *testing.T) {
	service, reviews, packages, verifier := newTestService()
	ctx := context.Background()

	verifier.On("Verify", ctx, "tok", "1.2.3.4").Return(nil).Once()
	packages.On("GetByID", ctx, "pkg-1").Return(nil, repository.ErrNotFound).Once()

	result, err := service.Submit(ctx, testUser(), validInput())

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, result)
	reviews.AssertNotCalled(t, "Create")
}

func TestReviewService_Submit_ValidationErrors(t *testing.T) {
	service, reviews, _, verifier := newTestService()
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*SubmitReviewInput)
	}{
		{name: "rating too low", mutate: func(in *SubmitReviewInput) { in.Rating = 0 }},
		{name: "rating too high", mutate: func(in *SubmitReviewInput) { in.Rating = 6 }},
		{name: "missing title", mutate: func(in *SubmitReviewInput) { in.Title = "" }},
		{name: "missing comment", mutate: func(in *SubmitReviewInput) { in.Comment = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			result, err := service.Submit(ctx, testUser(), input)
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}

	verifier.AssertNotCalled(t, "Verify")
	reviews.AssertNotCalled(t, "Create")
}

func TestReviewService_ListApproved(t *testing.T) {
	service, reviews, _, _ := newTestService()
	ctx := context.Background()

	approved := []domain.Review{{ID: "review-1", IsApproved: true}}
	reviews.On("ListApprovedByPackage", ctx, "pkg-1").Return(approved, nil).Once()

	result, err := service.ListApproved(ctx, "pkg-1")

	assert.NoError(t, err)
	assert.Equal(t, approved, result)
}
