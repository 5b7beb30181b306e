// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/config"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

var messageTemplate = template.Must(template.New("email").Funcs(sprig.TxtFuncMap()).Parse(
	"From: REANA platform <{{ .From }}>\r\n" +
		"To: {{ .To }}\r\n" +
		"Subject: {{ .Subject | trim }}\r\n" +
		"\r\n" +
		"{{ .Body | replace \"\\n\" \"\\r\\n\" }}\r\n"))

// Message is a plain text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Render returns the message with its headers.
func (m Message) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := messageTemplate.Execute(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Sender sends notification emails through the configured SMTP server.
type Sender struct {
	log logr.Logger
	cfg config.EmailConfiguration
	// tlsConfig is used for STARTTLS. It defaults to verifying the SMTP server name.
	tlsConfig *tls.Config
}

// NewSender creates a sender for the configuration.
func NewSender(log logr.Logger, cfg config.EmailConfiguration) *Sender {
	return &Sender{
		log:       log.WithName("email"),
		cfg:       cfg,
		tlsConfig: &tls.Config{ServerName: cfg.SMTPServer, MinVersion: tls.VersionTLS12},
	}
}

// Send sends an email with the given subject and body.
// All failures are reported as email notification errors.
func (s *Sender) Send(to, subject, body string) error {
	if s.cfg.SMTPServer == "" {
		return reanaerrors.NewEmailNotificationError("the SMTP server is not configured")
	}
	msg := Message{From: s.cfg.Sender, To: to, Subject: subject, Body: body}
	data, err := msg.Render()
	if err != nil {
		return reanaerrors.NewEmailNotificationError(err.Error())
	}
	if err := s.send(to, data); err != nil {
		s.log.Error(err, "unable to send email", "receiver", to)
		return reanaerrors.NewEmailNotificationError(err.Error())
	}
	s.log.Info("Email sent", "login", s.cfg.Login, "sender", s.cfg.Sender, "receiver", to)
	s.log.V(5).Info("email body", "message", string(data))
	return nil
}

func (s *Sender) send(to string, data []byte) error {
	addr := net.JoinHostPort(s.cfg.SMTPServer, strconv.Itoa(s.cfg.SMTPPort))
	c, err := smtp.Dial(addr)
	if err != nil {
		return errors.Wrapf(err, "unable to connect to %s", addr)
	}
	defer c.Close()

	if !s.cfg.DisableTLS {
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return errors.Wrap(err, "unable to start tls")
		}
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Login, s.cfg.Password, s.cfg.SMTPServer)); err != nil {
			return errors.Wrap(err, "unable to authenticate")
		}
	}
	if err := c.Mail(s.cfg.Sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("invalid receiver %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
