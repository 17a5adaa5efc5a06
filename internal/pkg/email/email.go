package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/crewconnect/employee-portal/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLeaveSubmitted(ctx context.Context, to string, data LeaveSubmittedData) error
	SendLeaveApprovalRequest(ctx context.Context, to string, data LeaveApprovalData) error
	SendLeaveResolved(ctx context.Context, to string, data LeaveResolvedData) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	return newEmailService(cfg, smtp.SendMail)
}

func newEmailService(cfg config.SMTPConfig, send sendFunc) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      send,
		// 1s, 2s, 4s
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

// LeaveSummary is the part of a leave request every leave email shows.
type LeaveSummary struct {
	EmployeeName   string
	LeaveType      string
	FromDate       string
	ToDate         string
	Reason         string
	RequestedDays  int
	CompletedLeave int
	LOP            int
}

type LeaveSubmittedData struct {
	LeaveSummary
	AvailableLeave int
}

type LeaveApprovalData struct {
	LeaveSummary
	EmployeeEmail string
	ApproveLink   string
	RejectLink    string
	ExpiresAt     string
}

type LeaveResolvedData struct {
	LeaveSummary
	Status         string
	AvailableLeave int
	TotalLOP       int
}

// SendLeaveSubmitted confirms a new leave request to the employee
func (s *emailServiceImpl) SendLeaveSubmitted(ctx context.Context, to string, data LeaveSubmittedData) error {
	body, err := s.render("leave_submitted.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(ctx, to, "Leave Request Submitted", body)
}

// SendLeaveApprovalRequest sends the approve/reject links to the approver
func (s *emailServiceImpl) SendLeaveApprovalRequest(ctx context.Context, to string, data LeaveApprovalData) error {
	body, err := s.render("leave_approval.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(ctx, to, "Leave Request Approval Needed", body)
}

// SendLeaveResolved tells the employee the approver's decision
func (s *emailServiceImpl) SendLeaveResolved(ctx context.Context, to string, data LeaveResolvedData) error {
	body, err := s.render("leave_resolved.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(ctx, to, fmt.Sprintf("Leave Request %s", data.Status), body)
}

func (s *emailServiceImpl) render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email to %s abandoned: %w", to, ctx.Err())
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
