package leave

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs notification work outside the request path.
type Dispatcher interface {
	Dispatch(name string, fn func(ctx context.Context) error) bool
}

// ActionTokens are the two single-purpose tokens minted for one request.
type ActionTokens struct {
	Approve   string
	Reject    string
	ExpiresAt time.Time
}

// Notifier builds leave emails and hands them to the dispatcher. A nil
// Notifier sends nothing.
type Notifier struct {
	email         email.EmailService
	dispatcher    Dispatcher
	frontendURL   string
	approverEmail string
}

func NewNotifier(emailService email.EmailService, dispatcher Dispatcher, frontendURL, approverEmail string) *Notifier {
	return &Notifier{
		email:         emailService,
		dispatcher:    dispatcher,
		frontendURL:   frontendURL,
		approverEmail: approverEmail,
	}
}

// ActionLink is the frontend page the approver lands on; the page calls the
// process-action endpoint with the same query.
func (n *Notifier) ActionLink(employeeID string, index int, status leave.LeaveRequestStatus, token string) string {
	q := url.Values{}
	q.Set("employeeId", employeeID)
	q.Set("requestIndex", strconv.Itoa(index))
	q.Set("status", string(status))
	q.Set("token", token)
	return n.frontendURL + "/leave/action?" + q.Encode()
}

// LeaveSubmitted confirms the request to the employee and asks the approver
// to act, concurrently.
func (n *Notifier) LeaveSubmitted(emp employee.Employee, index int, req leave.LeaveRequest, tokens ActionTokens) {
	if n == nil {
		return
	}

	summary := summarize(emp, req)
	submitted := email.LeaveSubmittedData{
		LeaveSummary:   summary,
		AvailableLeave: emp.AvailableLeave,
	}
	approval := email.LeaveApprovalData{
		LeaveSummary:  summary,
		EmployeeEmail: emp.Email,
		ApproveLink:   n.ActionLink(emp.ID, index, leave.LeaveRequestStatusApproved, tokens.Approve),
		RejectLink:    n.ActionLink(emp.ID, index, leave.LeaveRequestStatusRejected, tokens.Reject),
		ExpiresAt:     tokens.ExpiresAt.UTC().Format("2 January 2006 15:04 MST"),
	}
	to := emp.Email

	n.dispatcher.Dispatch("leave_submitted:"+req.ID, func(ctx context.Context) error {
		var g errgroup.Group
		g.Go(func() error {
			if err := n.email.SendLeaveSubmitted(ctx, to, submitted); err != nil {
				return fmt.Errorf("notify requester: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if err := n.email.SendLeaveApprovalRequest(ctx, n.approverEmail, approval); err != nil {
				return fmt.Errorf("notify approver: %w", err)
			}
			return nil
		})
		return g.Wait()
	})
}

// LeaveResolved tells the employee about the approver's decision.
func (n *Notifier) LeaveResolved(emp employee.Employee, req leave.LeaveRequest) {
	if n == nil {
		return
	}

	data := email.LeaveResolvedData{
		LeaveSummary:   summarize(emp, req),
		Status:         string(req.Status),
		AvailableLeave: emp.AvailableLeave,
		TotalLOP:       emp.LOP,
	}
	to := emp.Email

	n.dispatcher.Dispatch("leave_resolved:"+req.ID, func(ctx context.Context) error {
		return n.email.SendLeaveResolved(ctx, to, data)
	})
}

func summarize(emp employee.Employee, req leave.LeaveRequest) email.LeaveSummary {
	return email.LeaveSummary{
		EmployeeName:   emp.Username,
		LeaveType:      string(req.LeaveType),
		FromDate:       req.FromDate,
		ToDate:         req.ToDate,
		Reason:         req.Reason,
		RequestedDays:  req.RequestedDays,
		CompletedLeave: req.CompletedLeave,
		LOP:            req.LOP,
	}
}
