package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/multimart/internal/order"
)

// Service sends transactional mail via SMTP.
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service.
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation sends an order confirmation email.
func (s *Service) SendOrderConfirmation(to, name string, o *order.Order) error {
	subject := fmt.Sprintf("Order confirmation #%d - MultiMart", o.ID)
	body := BuildOrderConfirmationBody(name, o)
	return s.send(to, subject, body)
}

// SendOrderCancelled sends the cancellation notice.
func (s *Service) SendOrderCancelled(to, name string, orderID int64) error {
	subject := fmt.Sprintf("Order #%d cancelled - MultiMart", orderID)
	body := BuildOrderCancelledBody(name, orderID)
	return s.send(to, subject, body)
}

// SendWelcome sends the post-registration welcome email.
func (s *Service) SendWelcome(to, name string) error {
	subject := "Welcome to MultiMart"
	body := BuildWelcomeBody(name)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
