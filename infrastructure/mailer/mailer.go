// Package mailer sends booking-confirmation email. Delivery is always best
// effort: booking success never depends on a message going out.
package mailer

import (
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"

	"sevabook/infrastructure/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Confirmation describes a booking for the standard confirmation template.
type Confirmation struct {
	Name        string
	Email       string
	BookingType string // "Annadanam" | "Pooja" | "Volunteer"
	Date        string
	Slot        string
	BookingID   string
}

// Sender delivers messages over SMTP.
type Sender struct {
	cfg config.SMTPConfig
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers msg. Port 465 uses implicit TLS; anything else STARTTLS.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Configured() {
		return fmt.Errorf("smtp is not configured")
	}
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	recipients := []string{msg.To}
	if bcc := strings.TrimSpace(s.cfg.BCC); bcc != "" {
		recipients = append(recipients, bcc)
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)

	var client *smtp.Client
	var err error
	if s.cfg.Port == 465 {
		conn, dialErr := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
		if dialErr != nil {
			return fmt.Errorf("smtp dial: %w", dialErr)
		}
		client, err = smtp.NewClient(conn, s.cfg.Host)
	} else {
		client, err = smtp.Dial(addr)
		if err == nil {
			if startErr := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); startErr != nil {
				client.Close()
				return fmt.Errorf("smtp starttls: %w", startErr)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMIME(s.cfg.FromName, from, msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

func buildMIME(fromName, from string, msg Message) []byte {
	var b strings.Builder
	boundary := "sevabook-alt-boundary"
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if msg.HTML != "" {
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	} else {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Text)
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// ConfirmationMessage renders the standard booking-confirmation template.
func ConfirmationMessage(fromName string, c Confirmation) Message {
	subject := fmt.Sprintf("Booking Confirmation - %s #%s", c.BookingType, c.BookingID)
	name := c.Name
	if name == "" {
		name = "Devotee"
	}

	text := fmt.Sprintf(
		"%s\n\nDear %s,\n\nThank you for your %s booking at %s.\n\nDetails:\n- Date: %s\n- Slot: %s\n- Booking ID: %s\n\nMay Lord Ayyappa bless you abundantly!\n\nRegards,\n%s\n",
		subject, name, c.BookingType, fromName, c.Date, c.Slot, c.BookingID, fromName)

	row := func(k, v string) string {
		return fmt.Sprintf(`<tr><td style="padding:6px 8px;border:1px solid #e5e7eb;background:#fafafa;width:160px"><strong>%s</strong></td><td style="padding:6px 8px;border:1px solid #e5e7eb">%s</td></tr>`,
			html.EscapeString(k), html.EscapeString(v))
	}
	htmlBody := fmt.Sprintf(`<div style="font-family:system-ui,sans-serif;color:#0f172a;line-height:1.6">
<div style="background:#f97316;color:white;padding:14px 16px;border-radius:10px 10px 0 0"><strong>%s</strong></div>
<div style="border:1px solid #e5e7eb;border-top:none;border-radius:0 0 10px 10px;padding:16px">
<h2 style="margin:0 0 10px;font-size:18px">%s</h2>
<p>Dear %s,</p>
<p>Thank you for your %s booking at %s.</p>
<table style="border-collapse:collapse;width:100%%;margin:10px 0 14px"><tbody>%s%s%s%s%s%s</tbody></table>
<p>May Lord Ayyappa bless you abundantly!</p>
<p>Regards,<br/>%s</p>
</div></div>`,
		html.EscapeString(fromName),
		html.EscapeString(subject),
		html.EscapeString(name),
		html.EscapeString(c.BookingType),
		html.EscapeString(fromName),
		row("Booking Type", c.BookingType),
		row("Booking ID", c.BookingID),
		row("Name", c.Name),
		row("Email", c.Email),
		row("Date", c.Date),
		row("Slot", c.Slot),
		html.EscapeString(fromName))

	return Message{To: c.Email, Subject: subject, Text: text, HTML: htmlBody}
}
