package notifications

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

const DefaultSender = "no-reply@clinicslots.local"

type Sender interface {
	Send(ctx context.Context, email Email) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers mail through an unauthenticated SMTP relay.
type SMTPSender struct {
	addr     string
	from     string
	sendMail sendMailFunc
}

func NewSMTPSender(host, port, from string) *SMTPSender {
	from = strings.TrimSpace(from)
	if from == "" {
		from = DefaultSender
	}
	return &SMTPSender{
		addr:     fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMessage(s.from, email)
	if err != nil {
		return err
	}
	return s.sendMail(s.addr, nil, s.from, []string{email.To}, msg)
}

// buildMessage writes a multipart/alternative message carrying the text and
// HTML bodies.
func buildMessage(from string, email Email) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", email.Text},
		{"text/html; charset=utf-8", email.HTML},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
