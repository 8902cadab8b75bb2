package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/kafka"
	"github.com/magicalboonies/safaribook/internal/paystack"
	"github.com/magicalboonies/safaribook/internal/repository"
)

var (
	// ErrUnavailable means the capacity check came back negative.
	ErrUnavailable = errors.New("package is not available for the selected dates")
	// ErrNotOwner means the caller tried to touch somebody else's booking.
	ErrNotOwner = errors.New("booking belongs to another user")
)

type BookingUseCase interface {
	CheckAvailability(ctx context.Context, packageID string, start time.Time, adults, children int) (*Availability, error)
	CreateBooking(ctx context.Context, user domain.User, input CreateBookingInput) (*CreatedBooking, error)
	ConfirmFromReference(ctx context.Context, reference string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]UserBooking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireSubmitLock(ctx context.Context, userID, packageID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, userID, packageID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentGateway interface {
	Initialize(ctx context.Context, email string, amountCents int64, bookingID string) (*paystack.Transaction, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifiedTransaction, error)
}

type CreateBookingInput struct {
	PackageID       string
	StartDate       time.Time
	Adults          int
	Children        int
	SpecialRequests string
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	ContactCountry  string
}

// CreatedBooking pairs the pending booking with the checkout session the
// caller is redirected to.
type CreatedBooking struct {
	Booking          *domain.Booking
	PaymentURL       string
	PaymentReference string
	AccessCode       string
}

// Availability is the advisory result of the capacity check. It is computed
// from a plain read with no lock; two concurrent bookers can both see
// Available and jointly overshoot capacity.
type Availability struct {
	Available bool
	Capacity  int
	Booked    int
	Requested int
	StartDate time.Time
	EndDate   time.Time
}

// UserBooking decorates a booking with the catalogue fields the account view
// renders alongside it.
type UserBooking struct {
	domain.Booking
	PackageTitle        string
	PackageImageURL     string
	PackageDuration     string
	DestinationCategory string
}

type BookingService struct {
	bookings             repository.BookingRepository
	packages             repository.PackageRepository
	cache                Cache
	producer             Producer
	payments             PaymentGateway
	eventsTopic          string
	notificationsTopic   string
	minLeadDays          int
	maxHorizonMonths     int
	childDiscountPercent int
	submitLockTTL        time.Duration
	pendingTTL           time.Duration
	now                  func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	packages repository.PackageRepository,
	cache Cache,
	producer Producer,
	payments PaymentGateway,
	eventsTopic string,
	minLeadDays, maxHorizonMonths, childDiscountPercent int,
	submitLockTTL, pendingTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:             bookings,
		packages:             packages,
		cache:                cache,
		producer:             producer,
		payments:             payments,
		eventsTopic:          eventsTopic,
		minLeadDays:          minLeadDays,
		maxHorizonMonths:     maxHorizonMonths,
		childDiscountPercent: childDiscountPercent,
		submitLockTTL:        submitLockTTL,
		pendingTTL:           pendingTTL,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CheckAvailability is the read-only capacity check. Safe to call
// repeatedly; a read failure is a non-definitive answer and the caller must
// block submission rather than assume availability.
func (s *BookingService) CheckAvailability(ctx context.Context, packageID string, start time.Time, adults, children int) (*Availability, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("could not determine availability: %w", err)
	}
	return s.availabilityFor(ctx, pkg, start, adults, children)
}

func (s *BookingService) availabilityFor(ctx context.Context, pkg *domain.SafariPackage, start time.Time, adults, children int) (*Availability, error) {
	end, err := pkg.EndDate(start)
	if err != nil {
		return nil, fmt.Errorf("could not determine availability: %w", err)
	}
	capacity, err := domain.ParseGroupSize(pkg.GroupSize)
	if err != nil {
		return nil, fmt.Errorf("could not determine availability: %w", err)
	}

	existing, err := s.bookings.ListActiveInRange(ctx, pkg.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("could not determine availability: %w", err)
	}

	booked := 0
	for _, b := range existing {
		booked += b.Travelers()
	}
	requested := adults + children

	return &Availability{
		Available: booked+requested <= capacity,
		Capacity:  capacity,
		Booked:    booked,
		Requested: requested,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// TotalCents prices a party against a package: adults pay full fare,
// children pay the discounted fare, rounded per child.
func (s *BookingService) TotalCents(pkg *domain.SafariPackage, adults, children int) int64 {
	childCents := int64(math.Round(float64(pkg.PriceCents) * float64(100-s.childDiscountPercent) / 100))
	return int64(adults)*pkg.PriceCents + int64(children)*childCents
}

func (s *BookingService) CreateBooking(ctx context.Context, user domain.User, input CreateBookingInput) (*CreatedBooking, error) {
	if input.Adults < 1 {
		return nil, errors.New("at least 1 adult traveler is required")
	}
	if input.Children < 0 {
		return nil, errors.New("children count cannot be negative")
	}
	if input.ContactName == "" || input.ContactEmail == "" || input.ContactPhone == "" || input.ContactCountry == "" {
		return nil, errors.New("all contact fields are required")
	}
	if input.StartDate.IsZero() {
		return nil, errors.New("start date is required")
	}

	today := dateOnly(s.now())
	minStart := today.AddDate(0, 0, s.minLeadDays)
	maxStart := today.AddDate(0, s.maxHorizonMonths, 0)
	start := dateOnly(input.StartDate)
	if start.Before(minStart) {
		return nil, fmt.Errorf("start date must be at least %d days in advance", s.minLeadDays)
	}
	if start.After(maxStart) {
		return nil, fmt.Errorf("start date cannot be more than %d months ahead", s.maxHorizonMonths)
	}

	pkg, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}

	// Re-check right before the insert. Advisory only: nothing spans the
	// check and the insert, so concurrent bookers can still overshoot.
	availability, err := s.availabilityFor(ctx, pkg, start, input.Adults, input.Children)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, ErrUnavailable
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSubmitLock(ctx, user.ID, pkg.ID, s.submitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("a booking for this package is already in progress")
		}
		locked = true
	}

	booking := &domain.Booking{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		PackageID:       pkg.ID,
		StartDate:       start,
		EndDate:         availability.EndDate,
		Adults:          input.Adults,
		Children:        input.Children,
		SpecialRequests: input.SpecialRequests,
		ContactName:     input.ContactName,
		ContactEmail:    input.ContactEmail,
		ContactPhone:    input.ContactPhone,
		ContactCountry:  input.ContactCountry,
		TotalCents:      s.TotalCents(pkg, input.Adults, input.Children),
		Status:          domain.BookingStatusPending,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseSubmitLock(ctx, user.ID, pkg.ID)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.publish(ctx, "booking_created", booking, pkg.Title); err != nil {
		log.Printf("WARNING: failed to publish booking_created for booking %s: %v", booking.ID, err)
	}

	tx, err := s.payments.Initialize(ctx, user.Email, booking.TotalCents, booking.ID)
	if err != nil {
		// The pending row stays behind; the worker sweep reconciles it if
		// the user never retries payment.
		if locked {
			_ = s.cache.ReleaseSubmitLock(ctx, user.ID, pkg.ID)
		}
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	return &CreatedBooking{
		Booking:          booking,
		PaymentURL:       tx.AuthorizationURL,
		PaymentReference: tx.Reference,
		AccessCode:       tx.AccessCode,
	}, nil
}

// ConfirmFromReference settles a booking from the gateway's server-held
// record. The redirect callback is only a hint; the verify call decides.
// The returned booking carries the final status: confirmed on success,
// failed on anything else.
func (s *BookingService) ConfirmFromReference(ctx context.Context, reference string) (*domain.Booking, error) {
	tx, err := s.payments.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if tx.BookingID == "" {
		return nil, errors.New("payment record has no booking attached")
	}

	current, err := s.bookings.GetByID(ctx, tx.BookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusConfirmed {
		return current, nil
	}
	if current.Status != domain.BookingStatusPending {
		return nil, errors.New("booking is not pending")
	}

	status := domain.BookingStatusFailed
	eventType := "booking_failed"
	// A successful charge for the wrong amount does not confirm anything.
	if tx.Status == paystack.StatusSuccess && tx.AmountCents == current.TotalCents {
		status = domain.BookingStatusConfirmed
		eventType = "booking_confirmed"
	}

	updated, err := s.bookings.UpdateStatus(ctx, current.ID, status, tx.Reference)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventType, updated, ""); err != nil {
		log.Printf("WARNING: failed to publish %s for booking %s: %v", eventType, updated.ID, err)
	}
	if s.cache != nil {
		_ = s.cache.ReleaseSubmitLock(ctx, updated.UserID, updated.PackageID)
	}
	return updated, nil
}

// CancelBooking is the user-initiated cancel. Permitted only for the owner
// while the start date is still ahead; cancelling a cancelled booking is a
// no-op. Status change only, refunds are out of scope.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, ErrNotOwner
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}
	if !current.StartDate.After(dateOnly(s.now())) {
		return nil, errors.New("only upcoming bookings can be cancelled")
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "booking_cancelled", updated, ""); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled for booking %s: %v", updated.ID, err)
	}
	if s.cache != nil {
		_ = s.cache.ReleaseSubmitLock(ctx, updated.UserID, updated.PackageID)
	}
	return updated, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]UserBooking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	packagesByID := make(map[string]*domain.SafariPackage)
	result := make([]UserBooking, 0, len(bookings))
	for _, b := range bookings {
		pkg, ok := packagesByID[b.PackageID]
		if !ok {
			pkg, err = s.packages.GetByID(ctx, b.PackageID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			packagesByID[b.PackageID] = pkg
		}

		ub := UserBooking{Booking: b}
		if pkg != nil {
			ub.PackageTitle = pkg.Title
			ub.PackageImageURL = pkg.ImageURL
			ub.PackageDuration = pkg.Duration
			ub.DestinationCategory = pkg.DestinationCategory
		}
		result = append(result, ub)
	}
	return result, nil
}

// ExpirePendingBookings reconciles bookings whose payment never completed:
// anything pending for longer than the configured TTL is marked failed.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := s.now().Add(-s.pendingTTL)
	expired, err := s.bookings.MarkPendingFailedBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := expired[i]
		if err := s.publish(ctx, "booking_failed", &b, ""); err != nil {
			log.Printf("WARNING: failed to publish booking_failed for booking %s: %v", b.ID, err)
		}
		if s.cache != nil {
			_ = s.cache.ReleaseSubmitLock(ctx, b.UserID, b.PackageID)
		}
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, packageTitle string) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		PackageID:    booking.PackageID,
		Email:        booking.ContactEmail,
		Status:       string(booking.Status),
		StartDate:    booking.StartDate,
		TotalCents:   booking.TotalCents,
		PaymentRef:   booking.PaymentReference,
		ContactName:  booking.ContactName,
		PackageTitle: packageTitle,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var _ BookingUseCase = (*BookingService)(nil)
