package email

import (
	"context"
	"fmt"

	"github.com/magicalboonies/safaribook/internal/kafka"
)

// Sender renders booking notifications. Delivery is a stub: the message is
// written to stdout so the pipeline can run without an SMTP relay.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	name := event.ContactName
	if name == "" {
		name = event.Email
	}
	switch event.Type {
	case "booking_confirmed":
		fmt.Printf("send email to %s: booking %s for %q is confirmed (payment %s)\n", event.Email, event.BookingID, event.PackageTitle, event.PaymentRef)
	case "booking_cancelled":
		fmt.Printf("send email to %s: booking %s has been cancelled\n", event.Email, event.BookingID)
	case "booking_failed":
		fmt.Printf("send email to %s: payment for booking %s did not complete, please contact support\n", event.Email, event.BookingID)
	default:
		fmt.Printf("send email to %s (%s): booking %s is %s\n", event.Email, name, event.BookingID, event.Status)
	}
	return nil
}
