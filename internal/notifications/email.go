package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"clinicslots/pkg/model"
)

// Email is a rendered confirmation ready for a Sender.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type emailTemplate struct {
	subject *template.Template
	text    *template.Template
	html    *htmltemplate.Template
}

var templates = map[model.NotificationKind]emailTemplate{
	model.BookingConfirmed: {
		subject: template.Must(template.New("booking-subject").Parse(
			`Your appointment for {{.Treatment}} on {{.Date}} at {{.Slot}} is confirmed`)),
		text: template.Must(template.New("booking-text").Parse(
			"Hello {{.PatientName}},\n\nYour appointment for {{.Treatment}} is confirmed.\nLooking forward to seeing you on {{.Date}} at {{.Slot}}.\n")),
		html: htmltemplate.Must(htmltemplate.New("booking-html").Parse(`<div>
  <p>Hello {{.PatientName}},</p>
  <h3>Your appointment for {{.Treatment}} is confirmed</h3>
  <p>Looking forward to seeing you on {{.Date}} at {{.Slot}}</p>
</div>`)),
	},
	model.PaymentConfirmed: {
		subject: template.Must(template.New("payment-subject").Parse(
			`We have received your payment for {{.Treatment}} on {{.Date}} at {{.Slot}}`)),
		text: template.Must(template.New("payment-text").Parse(
			"Hello {{.PatientName}},\n\nThank you for your payment. Your appointment for {{.Treatment}} on {{.Date}} at {{.Slot}} is paid.\n")),
		html: htmltemplate.Must(htmltemplate.New("payment-html").Parse(`<div>
  <p>Hello {{.PatientName}},</p>
  <h3>Thank you for your payment</h3>
  <p>Looking forward to seeing you on {{.Date}} at {{.Slot}}</p>
</div>`)),
	},
}

// Render builds the confirmation e-mail for event. The patient id is the
// patient's e-mail address.
func Render(event model.ReservationEvent) (Email, error) {
	tmpl, ok := templates[event.Kind]
	if !ok {
		return Email{}, fmt.Errorf("no template for notification kind %q", event.Kind)
	}

	r := event.Reservation
	var subject, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subject, r); err != nil {
		return Email{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.text.Execute(&text, r); err != nil {
		return Email{}, fmt.Errorf("render text body: %w", err)
	}
	if err := tmpl.html.Execute(&html, r); err != nil {
		return Email{}, fmt.Errorf("render html body: %w", err)
	}

	return Email{
		To:      r.PatientID,
		Subject: subject.String(),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
