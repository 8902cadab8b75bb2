package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// Booking is a reservation request tied to one user and one package.
// Contact fields are a snapshot taken at booking time, not live-linked to
// the user profile.
type Booking struct {
	ID               string
	UserID           string
	PackageID        string
	StartDate        time.Time
	EndDate          time.Time
	Adults           int
	Children         int
	SpecialRequests  string
	ContactName      string
	ContactEmail     string
	ContactPhone     string
	ContactCountry   string
	TotalCents       int64
	Status           BookingStatus
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Travelers is the head count the capacity check sums over.
func (b *Booking) Travelers() int {
	return b.Adults + b.Children
}
