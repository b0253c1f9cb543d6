package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	Pending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.Submit(r.Context(), caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leaveRequest)
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	leaveRequest, err := l.leaveService.GetRequest(r.Context(), requestID, caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveRequest)
}

// ListByUser implements LeaveHandler.
func (l *LeaveHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	userID := chi.URLParam(r, "userID")
	if !validator.IsValidUUID(userID) {
		response.HandleError(w, user.ErrUserNotFound)
		return
	}

	requests, err := l.leaveService.ListUserRequests(r.Context(), userID, caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Balance implements LeaveHandler.
func (l *LeaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	year, valid := validator.ParseYear(r.URL.Query().Get("year"))
	if !valid {
		response.BadRequest(w, "Invalid year parameter", map[string]string{"year": "year must be a four digit number"})
		return
	}

	balances, err := l.leaveService.GetBalance(r.Context(), caller.UserID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// Pending implements LeaveHandler.
func (l *LeaveHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	stage, err := leave.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := l.leaveService.ListPendingApprovals(r.Context(), caller.UserID, stage)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Review implements LeaveHandler.
func (l *LeaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	stage, err := leave.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.ApproveStage(r.Context(), requestID, stage, caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", leaveRequest)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	var req leave.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Cancel decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.Cancel(r.Context(), requestID, caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leaveRequest)
}
