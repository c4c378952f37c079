// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPriceDropAlert(toEmail, productTitle, productURL, message string) error
	SendReminder(toEmail, message, when string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendPriceDropAlert(toEmail, productTitle, productURL, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Price alert: %s", productTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Price drop spotted!</h2>
			<p>%s</p>
			<a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open the product page</a>
			<p>You're getting this because you asked me to watch this product. Remove it from your watchlist to stop alerts.</p>
		</div>
	`, message, productURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send price alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Price alert sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendReminder(toEmail, message, when string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Reminder from your tabs")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>You asked me to remind you</h2>
			<p>%s</p>
			<p style="color: #888;">Scheduled for: %s</p>
		</div>
	`, message, when)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send reminder to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Reminder sent to %s\n", toEmail)
	return nil
}
