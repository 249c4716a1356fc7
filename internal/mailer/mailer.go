// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mailer delivers verification PINs to users over SMTP, with a
// logging fallback for environments where SMTP is not configured.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/models"
)

// ErrSMTPNotConfigured is returned by the logging fallback sender. Callers
// treat it as degraded delivery rather than a hard failure: the PIN was
// issued, it just was not emailed.
var ErrSMTPNotConfigured = errors.New("smtp is not configured")

// PinSender delivers a verification PIN to the given address.
type PinSender interface {
	SendPin(ctx context.Context, to string, code string, purpose models.PinPurpose) error
}

// NewPinSender returns an SMTP-backed sender when cfg carries full SMTP
// credentials, and a logging fallback sender otherwise.
func NewPinSender(cfg config.Mail, log *logger.Logger) PinSender {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		log.Warn().Msg("smtp is not configured, verification pins will be logged instead of emailed")
		return &LogSender{log: log}
	}

	return &SMTPSender{cfg: cfg}
}

// SMTPSender delivers PINs through an SMTP server using plain authentication.
// Port 465 uses implicit TLS; any other port relies on STARTTLS.
type SMTPSender struct {
	cfg config.Mail
}

// SendPin emails the verification code to the given address.
func (s *SMTPSender) SendPin(ctx context.Context, to string, code string, purpose models.PinPurpose) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = pinSubject(purpose)
	e.Text = []byte(pinBody(code, purpose))

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	var err error
	if s.cfg.Port == 465 {
		err = e.SendWithTLS(addr, auth, &tls.Config{ServerName: s.cfg.Host})
	} else {
		err = e.Send(addr, auth)
	}
	if err != nil {
		return fmt.Errorf("error sending pin email: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "SMTPSender.SendPin").
		Str("to", to).
		Str("purpose", string(purpose)).
		Msg("verification pin email sent")

	return nil
}

// LogSender writes the PIN to the application log instead of emailing it.
// Intended for local development and tests.
type LogSender struct {
	log *logger.Logger
}

// SendPin logs the code and reports [ErrSMTPNotConfigured] so callers can
// flag the delivery as degraded.
func (s *LogSender) SendPin(_ context.Context, to string, code string, purpose models.PinPurpose) error {
	s.log.Warn().
		Str("func", "LogSender.SendPin").
		Str("to", to).
		Str("purpose", string(purpose)).
		Str("pin", code).
		Msg("smtp not configured, fallback pin delivery")

	return ErrSMTPNotConfigured
}

func pinSubject(purpose models.PinPurpose) string {
	if purpose == models.PinPurposeRegister {
		return "Your Registration PIN"
	}
	return "Your Login PIN"
}

func pinBody(code string, purpose models.PinPurpose) string {
	return fmt.Sprintf("Your %s verification code is: %s. It expires in 10 minutes.", purpose, code)
}
