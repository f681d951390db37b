package email

import (
	"context"
	"fmt"

	"github.com/Karavaev93/campusparking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, to string, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s: booking %s on slot %s is now %s\n", to, event.BookingID, event.SlotID, event.Status)
	return nil
}
