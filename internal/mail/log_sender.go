package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender logs messages instead of delivering them. Used when no SMTP
// relay is configured (local development).
type LogSender struct {
	Logger *logrus.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Infof("mail (not delivered): %s", msg.Text)
	return nil
}

var _ Sender = (*LogSender)(nil)
