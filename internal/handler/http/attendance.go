package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	ActiveClockIn(w http.ResponseWriter, r *http.Request)
	ClockInStatus(w http.ResponseWriter, r *http.Request)
	HoursWorkedToday(w http.ResponseWriter, r *http.Request)
	Timesheet(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	ActiveBreak(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeOptionalJSON decodes the body into dst; an empty body leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ClockIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", resp)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockOutRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", resp)
}

// ActiveClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ActiveClockIn(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ActiveClockIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ClockInStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockInStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ClockInStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// HoursWorkedToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) HoursWorkedToday(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.HoursWorkedToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Timesheet implements AttendanceHandler.
func (h *attendanceHandlerImpl) Timesheet(w http.ResponseWriter, r *http.Request) {
	var filter attendance.TimesheetFilter
	if date := r.URL.Query().Get("date"); date != "" {
		filter.Date = &date
	}

	entries, err := h.attendanceService.Timesheet(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req attendance.StartBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("StartBreak decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.StartBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break started", resp)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	var req attendance.EndBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EndBreak decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.EndBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", resp)
}

// ActiveBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) ActiveBreak(w http.ResponseWriter, r *http.Request) {
	req := attendance.ActiveBreakRequest{RecordID: r.URL.Query().Get("record_id")}

	resp, err := h.attendanceService.ActiveBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
