package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ProcessAction(w http.ResponseWriter, r *http.Request)
	ListEmployeeRequests(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.LeaveSubmitted(w, created)
}

// ProcessAction handles the approve/reject links sent to the approver. The
// token in the query string is the only credential.
func (l *LeaveHandlerImpl) ProcessAction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := leave.ProcessActionRequest{
		EmployeeID:   q.Get("employeeId"),
		RequestIndex: q.Get("requestIndex"),
		Status:       q.Get("status"),
		Token:        q.Get("token"),
	}

	result, err := l.leaveService.ProcessAction(r.Context(), req)
	if err != nil {
		response.HandleActionError(w, err)
		return
	}

	response.ActionResult(w, result)
}

// ListEmployeeRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")

	result, err := l.leaveService.ListEmployeeLeaveRequests(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.EmployeeLeaves(w, result)
}
