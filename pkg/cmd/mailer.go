package cmd

import (
	"log/slog"

	"github.com/formlane/formlane/pkg/mailer"
)

// NewMailSender creates a mail sender. Without an SMTP host, outgoing mail
// is logged instead of delivered.
func NewMailSender(logger *slog.Logger, cfg mailer.SMTPConfig) (mailer.Sender, error) {
	if cfg.Host == "" {
		return mailer.NewLogSender(logger), nil
	}

	return mailer.NewSMTPSender(cfg)
}
