package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/pkg/validator"
)

// The approval link endpoint answers with a flat body the action page reads
// directly: {success, message, newStatus?, updatedAt?, tokenExpired?}.
type ActionResponse struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message"`
	NewStatus    string     `json:"newStatus,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	TokenExpired bool       `json:"tokenExpired,omitempty"`
}

type LeaveSubmittedResponse struct {
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	LeaveRequest leave.LeaveRequestResponse `json:"leaveRequest"`
}

func LeaveSubmitted(w http.ResponseWriter, req leave.LeaveRequestResponse) {
	writeJSON(w, http.StatusCreated, LeaveSubmittedResponse{
		Success:      true,
		Message:      "Leave request submitted successfully",
		LeaveRequest: req,
	})
}

// EmployeeLeavesResponse is the flat listing body the dashboard reads.
type EmployeeLeavesResponse struct {
	Success bool `json:"success"`
	leave.EmployeeLeaveResponse
}

func EmployeeLeaves(w http.ResponseWriter, result leave.EmployeeLeaveResponse) {
	writeJSON(w, http.StatusOK, EmployeeLeavesResponse{
		Success:               true,
		EmployeeLeaveResponse: result,
	})
}

func ActionResult(w http.ResponseWriter, result leave.ProcessActionResult) {
	status := strings.ToLower(string(result.Status))
	if result.AlreadyProcessed {
		writeJSON(w, http.StatusOK, ActionResponse{
			Success:   true,
			Message:   fmt.Sprintf("Request already %s", status),
			NewStatus: string(result.Status),
		})
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Success:   true,
		Message:   fmt.Sprintf("Leave request %s successfully", status),
		NewStatus: string(result.Status),
		UpdatedAt: result.ProcessedAt,
	})
}

// HandleActionError maps approval link failures to the flat action body.
func HandleActionError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		writeJSON(w, http.StatusBadRequest, ActionResponse{Message: validationErrs.Error()})
	case errors.Is(err, leave.ErrTokenExpired):
		writeJSON(w, http.StatusBadRequest, ActionResponse{Message: err.Error(), TokenExpired: true})
	case errors.Is(err, leave.ErrTokenInvalid), errors.Is(err, leave.ErrTokenMismatch):
		writeJSON(w, http.StatusBadRequest, ActionResponse{Message: err.Error()})
	case errors.Is(err, employee.ErrEmployeeNotFound):
		writeJSON(w, http.StatusNotFound, ActionResponse{Message: "Employee not found"})
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		writeJSON(w, http.StatusNotFound, ActionResponse{Message: "Leave request not found"})
	default:
		slog.Error("Process leave action failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ActionResponse{Message: "An unexpected error occurred"})
	}
}
