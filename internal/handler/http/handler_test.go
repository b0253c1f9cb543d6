package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"

	leaveRequestID = "0190a5f2-7c1e-7b3a-9d4e-2f6a8b1c3d5e"
	targetUserID   = "0190a5f2-8a2b-7c4d-8e5f-6a7b8c9d0e1f"
)

type stubAttendanceService struct {
	attendance.AttendanceService

	clockInUser string
	clockInReq  attendance.ClockInRequest
	clockInErr  error
	approveReq  attendance.ApproveRequest
	listFilter  attendance.ListFilter
	listTarget  string
	statsCaller string
}

func (s *stubAttendanceService) ClockIn(_ context.Context, userID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	s.clockInUser = userID
	s.clockInReq = req
	if s.clockInErr != nil {
		return attendance.AttendanceResponse{}, s.clockInErr
	}
	return attendance.AttendanceResponse{ID: "att-1", UserID: userID, State: attendance.StateClockedIn}, nil
}

func (s *stubAttendanceService) ApproveBatch(_ context.Context, _ string, req attendance.ApproveRequest) (attendance.ApproveResult, error) {
	s.approveReq = req
	return attendance.ApproveResult{Approved: req.AttendanceIDs, Skipped: []string{}}, nil
}

func (s *stubAttendanceService) ListUserAttendance(_ context.Context, _, target string, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	s.listTarget = target
	s.listFilter = filter
	return []attendance.AttendanceResponse{}, nil
}

func (s *stubAttendanceService) GetTodayGlobalStats(_ context.Context, callerID string) (attendance.GlobalStats, error) {
	s.statsCaller = callerID
	return attendance.GlobalStats{Date: "2025-03-10", Total: 3, Present: 2}, nil
}

type stubLeaveService struct {
	leave.LeaveService

	reviewStage leave.Stage
	reviewID    string
	reviewErr   error
	balanceYear int
	getCalled   bool
}

func (s *stubLeaveService) Submit(_ context.Context, userID string, req leave.SubmitRequest) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{ID: "lr-1", UserID: userID, Status: leave.StatusPending}, nil
}

func (s *stubLeaveService) ApproveStage(_ context.Context, requestID string, stage leave.Stage, _ string, _ leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	s.reviewStage = stage
	s.reviewID = requestID
	if s.reviewErr != nil {
		return leave.LeaveRequestResponse{}, s.reviewErr
	}
	return leave.LeaveRequestResponse{ID: requestID, Status: leave.StatusManagerApproved}, nil
}

func (s *stubLeaveService) GetRequest(_ context.Context, requestID, _ string) (leave.LeaveRequestResponse, error) {
	s.getCalled = true
	return leave.LeaveRequestResponse{ID: requestID}, nil
}

func (s *stubLeaveService) GetBalance(_ context.Context, _ string, year int) ([]leave.BalanceResponse, error) {
	s.balanceYear = year
	return []leave.BalanceResponse{}, nil
}

type routerFixture struct {
	handler    http.Handler
	jwt        jwt.Service
	attendance *stubAttendanceService
	leave      *stubLeaveService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		jwt:        jwt.NewJWTService(handlerTestSecret),
		attendance: &stubAttendanceService{},
		leave:      &stubLeaveService{},
	}
	f.handler = NewRouter(RouterOptions{
		AppName:        "hris-workforce-test",
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       slog.LevelError,
	}, f.jwt, NewAttendanceHandler(f.attendance), NewLeaveHandler(f.leave))
	return f
}

func (f *routerFixture) do(t *testing.T, method, path string, role user.Role, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken("u-"+string(role), role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ===== ATTENDANCE HANDLER TESTS =====

func TestAttendanceHandler_ClockIn_UsesTokenIdentity(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", user.RoleEmployee, map[string]any{
		"location":   "Office",
		"ip_address": "spoofed",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u-EMPLOYEE", f.attendance.clockInUser)
	assert.Equal(t, "Office", f.attendance.clockInReq.Location)
	assert.NotEqual(t, "spoofed", f.attendance.clockInReq.IPAddress)
	assert.True(t, decodeBody(t, rec).Success)
}

func TestAttendanceHandler_ClockIn_EmptyBody(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", user.RoleEmployee, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAttendanceHandler_ClockIn_Conflict(t *testing.T) {
	f := newRouterFixture(t)
	f.attendance.clockInErr = attendance.ErrAlreadyClockedIn

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", user.RoleEmployee, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CLOCKED_IN", decodeBody(t, rec).Error.Code)
}

func TestAttendanceHandler_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.attendance.clockInUser)
}

func TestAttendanceHandler_Approve_CapabilityGate(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]any{"attendance_ids": []string{"att-1"}}

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/approve", user.RoleEmployee, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.attendance.approveReq.AttendanceIDs)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/approve", user.RoleTeamLeader, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"att-1"}, f.attendance.approveReq.AttendanceIDs)
}

func TestAttendanceHandler_ListByUser_PassesRange(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/users/"+targetUserID+"?from=2025-03-01&to=2025-03-31", user.RoleHR, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, targetUserID, f.attendance.listTarget)
	assert.Equal(t, attendance.ListFilter{StartDate: "2025-03-01", EndDate: "2025-03-31"}, f.attendance.listFilter)
}

func TestAttendanceHandler_MalformedUserIDIsNotFound(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/api/v1/attendance/users/u-7", "/api/v1/attendance/users/u-7/stats"} {
		rec := f.do(t, http.MethodGet, path, user.RoleHR, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "USER_NOT_FOUND", decodeBody(t, rec).Error.Code, path)
	}
	assert.Empty(t, f.attendance.listTarget)
}

func TestAttendanceHandler_GlobalStats_DirectorOnly(t *testing.T) {
	f := newRouterFixture(t)

	for _, role := range []user.Role{user.RoleHR, user.RoleTeamLeader, user.RoleEmployee} {
		rec := f.do(t, http.MethodGet, "/api/v1/attendance/stats/today", role, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, role)
	}
	assert.Empty(t, f.attendance.statsCaller)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/stats/today", user.RoleDirector, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-DIRECTOR", f.attendance.statsCaller)
	assert.True(t, decodeBody(t, rec).Success)
}

// ===== LEAVE HANDLER TESTS =====

func TestLeaveHandler_Submit(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/leaves", user.RoleEmployee, map[string]any{
		"leave_type": "ANNUAL_LEAVE",
		"start_date": "2025-03-10",
		"end_date":   "2025-03-14",
		"reason":     "holiday",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLeaveHandler_Submit_MalformedBody(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves", bytes.NewBufferString("{"))
	token, _, err := f.jwt.GenerateAccessToken("u-1", user.RoleEmployee, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveHandler_Review(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]any{"decision": "APPROVED"}

	rec := f.do(t, http.MethodPost, "/api/v1/leaves/"+leaveRequestID+"/stages/Manager", user.RoleTeamLeader, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, leave.StageManager, f.leave.reviewStage)
	assert.Equal(t, leaveRequestID, f.leave.reviewID)

	rec = f.do(t, http.MethodPost, "/api/v1/leaves/"+leaveRequestID+"/stages/ceo", user.RoleTeamLeader, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STAGE", decodeBody(t, rec).Error.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/leaves/"+leaveRequestID+"/stages/hr", user.RoleEmployee, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaveHandler_MalformedIDIsNotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/leaves/lr-1", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LEAVE_REQUEST_NOT_FOUND", decodeBody(t, rec).Error.Code)
	assert.False(t, f.leave.getCalled)

	rec = f.do(t, http.MethodPost, "/api/v1/leaves/lr-1/stages/hr", user.RoleHR, map[string]any{"decision": "APPROVED"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.leave.reviewID)

	rec = f.do(t, http.MethodPost, "/api/v1/leaves/lr-1/cancel", user.RoleEmployee, map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/leaves/users/u-7", user.RoleHR, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeBody(t, rec).Error.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/leaves/"+leaveRequestID, user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.leave.getCalled)
}

func TestLeaveHandler_Review_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{leave.ErrAlreadyReviewed, http.StatusConflict},
		{leave.ErrPrerequisiteNotMet, http.StatusForbidden},
		{leave.ErrLeaveRequestNotFound, http.StatusNotFound},
		{leave.ErrRequestFinalized, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			f := newRouterFixture(t)
			f.leave.reviewErr = tt.err

			rec := f.do(t, http.MethodPost, "/api/v1/leaves/"+leaveRequestID+"/stages/hr", user.RoleHR, map[string]any{"decision": "APPROVED"})

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLeaveHandler_Balance_Year(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/leaves/balance?year=2024", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, f.leave.balanceYear)

	rec = f.do(t, http.MethodGet, "/api/v1/leaves/balance?year=last", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
