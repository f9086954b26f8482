package mail

import (
	"context"
	"fmt"
	"mime"
)

// Message is an outbound email with both plain-text and HTML alternatives.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages through an external relay. Delivery is best
// effort; callers treat failures as a side-channel error, never a rollback.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// OTPMessage builds the verification-code email.
func OTPMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Your OTP Code",
		Text:    fmt.Sprintf("Your OTP is: %s", code),
		HTML:    fmt.Sprintf("<p>Your OTP code is: <strong>%s</strong></p>", code),
	}
}

// SecurityAlertMessage builds the repeated-failed-login warning email.
func SecurityAlertMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Account Security Alert",
		Text:    "Multiple failed login attempts detected for your account. Please contact support if this wasn't you.",
		HTML:    "<p>Multiple failed login attempts detected for your account. Please contact support if this wasn't you.</p>",
	}
}

func encodeSubject(subject string) string {
	return mime.QEncoding.Encode("utf-8", subject)
}
