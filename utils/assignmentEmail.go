package utils

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// AssignmentNotice is what a doctor is told about a new assessment.
type AssignmentNotice struct {
	DoctorEmail  string
	DoctorName   string
	PatientName  string
	AssessmentID string
	TokenID      string
	Symptoms     []string
}

// Mailer delivers doctor assignment notices.
type Mailer interface {
	SendAssignmentNotice(notice AssignmentNotice) error
}

// NewMailer returns an SMTP mailer, or a mailer that drops every message
// when no SMTP host is configured.
func NewMailer(config SMTPConfig) Mailer {
	if config.Host == "" {
		return nopMailer{}
	}
	if config.From == "" {
		config.From = config.User
	}
	if config.Port == 0 {
		config.Port = 587
	}
	return &smtpMailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
	}
}

type smtpMailer struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func (m *smtpMailer) SendAssignmentNotice(notice AssignmentNotice) error {
	if notice.DoctorEmail == "" {
		return nil
	}
	msg := buildAssignmentMessage(m.config.From, notice)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send assignment notice: %w", err)
	}
	return nil
}

func buildAssignmentMessage(from string, notice AssignmentNotice) *gomail.Message {
	symptoms := strings.Join(notice.Symptoms, ", ")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", notice.DoctorEmail)
	m.SetHeader("Subject", "New patient assessment assigned")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nA new assessment from %s has been assigned to you.\nToken: %s\nAssessment: %s\nSymptoms: %s\n\nPlease review the preliminary prescription.",
		notice.DoctorName, notice.PatientName, notice.TokenID, notice.AssessmentID, symptoms,
	))

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>New Assessment</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f4f4f4; }
			.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
			.token { font-weight: bold; color: #007bff; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>New Assessment</h1>
			<p>Hello ` + html.EscapeString(notice.DoctorName) + `,</p>
			<p>A new assessment from ` + html.EscapeString(notice.PatientName) + ` has been assigned to you.</p>
			<p class="token">Token ` + html.EscapeString(notice.TokenID) + `</p>
			<p>Symptoms: ` + html.EscapeString(symptoms) + `</p>
			<p>Please review the preliminary prescription.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)
	return m
}

type nopMailer struct{}

func (nopMailer) SendAssignmentNotice(AssignmentNotice) error { return nil }
