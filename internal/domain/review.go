package domain

import "time"

// Review is user-submitted feedback on a package. New and re-submitted
// reviews both start unapproved; approval happens out of band.
type Review struct {
	ID          string
	PackageID   string
	UserID      string
	Rating      int
	Title       string
	Comment     string
	Name        string
	Email       string
	IsApproved  bool
	IsVerified  bool
	SubmittedAt time.Time
	UpdatedAt   time.Time
}
