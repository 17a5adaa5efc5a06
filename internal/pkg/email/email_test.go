package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/crewconnect/employee-portal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(t *testing.T, cfg config.SMTPConfig, failures int) (*emailServiceImpl, *[]sentMail, *int) {
	t.Helper()
	var (
		sent  []sentMail
		calls int
	)
	svc, err := newEmailService(cfg, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		if calls <= failures {
			return errors.New("421 service not available")
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	})
	require.NoError(t, err)
	svc.backoff = func(int) time.Duration { return time.Millisecond }
	return svc, &sent, &calls
}

var smtpCfg = config.SMTPConfig{Host: "smtp.test", Port: 2525, From: "noreply@crewconnect.test", FromName: "CrewConnect"}

func TestSendLeaveApprovalRequest(t *testing.T) {
	svc, sent, _ := newTestService(t, smtpCfg, 0)

	err := svc.SendLeaveApprovalRequest(context.Background(), "approver@crewconnect.test", LeaveApprovalData{
		LeaveSummary: LeaveSummary{
			EmployeeName:   "alice",
			LeaveType:      "Casual",
			FromDate:       "2024-01-01",
			ToDate:         "2024-01-05",
			Reason:         "trip",
			RequestedDays:  5,
			CompletedLeave: 3,
			LOP:            2,
		},
		EmployeeEmail: "alice@crewconnect.test",
		ApproveLink:   "http://localhost:5173/leave/action?status=Approved&token=a",
		RejectLink:    "http://localhost:5173/leave/action?status=Rejected&token=r",
		ExpiresAt:     "2024-01-08",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.test:2525", mail.addr)
	assert.Equal(t, []string{"approver@crewconnect.test"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Leave Request Approval Needed\r\n")
	assert.Contains(t, mail.msg, "From: CrewConnect <noreply@crewconnect.test>")
	assert.Contains(t, mail.msg, "5 (3 completed, 2 LOP)")
	assert.Contains(t, mail.msg, `href="http://localhost:5173/leave/action?status=Approved&amp;token=a"`)
	assert.Contains(t, mail.msg, `href="http://localhost:5173/leave/action?status=Rejected&amp;token=r"`)
}

func TestSendLeaveResolved_Subject(t *testing.T) {
	svc, sent, _ := newTestService(t, smtpCfg, 0)

	err := svc.SendLeaveResolved(context.Background(), "alice@crewconnect.test", LeaveResolvedData{
		LeaveSummary: LeaveSummary{EmployeeName: "alice", LeaveType: "Sick"},
		Status:       "Rejected",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "Subject: Leave Request Rejected\r\n")
}

func TestSendHTML_Retries(t *testing.T) {
	svc, sent, calls := newTestService(t, smtpCfg, 2)

	err := svc.SendLeaveSubmitted(context.Background(), "alice@crewconnect.test", LeaveSubmittedData{})
	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
	assert.Len(t, *sent, 1)
}

func TestSendHTML_GivesUp(t *testing.T) {
	svc, _, calls := newTestService(t, smtpCfg, maxRetries)

	err := svc.SendLeaveSubmitted(context.Background(), "alice@crewconnect.test", LeaveSubmittedData{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "after 3 attempts"))
	assert.Equal(t, maxRetries, *calls)
}

func TestSendHTML_StopsOnCancelledContext(t *testing.T) {
	svc, _, calls := newTestService(t, smtpCfg, maxRetries)
	svc.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.SendLeaveSubmitted(ctx, "alice@crewconnect.test", LeaveSubmittedData{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, *calls)
}

func TestSendHTML_SkipsWithoutSMTP(t *testing.T) {
	svc, sent, calls := newTestService(t, config.SMTPConfig{}, 0)

	err := svc.SendLeaveSubmitted(context.Background(), "alice@crewconnect.test", LeaveSubmittedData{})
	require.NoError(t, err)
	assert.Equal(t, 0, *calls)
	assert.Empty(t, *sent)
}
