package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"stayhub/config"
)

// Send delivers a single HTML email through the configured SMTP relay.
func Send(to, subject, html string) error {
	cfg := config.Cfg
	if cfg.EmailHost == "" {
		log.Printf("mailer: EMAIL_HOST not set, dropping mail to %s (%s)", to, subject)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		cfg.EmailFrom, to, subject, html,
	))

	auth := smtp.PlainAuth("", cfg.EmailUser, cfg.EmailPassword, cfg.EmailHost)
	return smtp.SendMail(cfg.EmailHost+":"+cfg.EmailPort, auth, cfg.EmailFrom, []string{to}, msg)
}

// SendBulk fans a message out to several recipients, logging failures
// instead of aborting the batch.
func SendBulk(recipients []string, subject, html string) {
	for _, to := range recipients {
		if err := Send(to, subject, html); err != nil {
			log.Printf("mailer: send to %s failed: %v", to, err)
		}
	}
}
