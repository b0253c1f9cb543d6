package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	GlobalStats(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeOptionalJSON decodes the body into dst. An empty body leaves dst as is.
func decodeOptionalJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ClockInRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Client metadata comes from the connection, never from the body
	req.IPAddress = r.RemoteAddr
	req.DeviceInfo = r.UserAgent()

	result, err := h.attendanceService.ClockIn(r.Context(), caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ClockOutRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", result)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.StartBreak(r.Context(), caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.EndBreak(r.Context(), caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func listFilterFromQuery(r *http.Request) attendance.ListFilter {
	query := r.URL.Query()
	return attendance.ListFilter{
		StartDate: query.Get("from"),
		EndDate:   query.Get("to"),
	}
}

// ListByUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.attendanceService.ListUserAttendance(r.Context(), caller.UserID, userID, listFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.attendanceService.GetStats(r.Context(), caller.UserID, userID, listFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GlobalStats implements AttendanceHandler.
func (h *attendanceHandlerImpl) GlobalStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.GetTodayGlobalStats(r.Context(), caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Approve decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ApproveBatch(r.Context(), caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance approval processed", result)
}
