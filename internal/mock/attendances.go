package mock

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

// ListAttendances handles GET /attendances.
func (h *Handlers) ListAttendances(req Request) Result {
	q := req.Query()
	page, pageSize := pageParams(q)

	f := attendanceFilter{
		studentID: q.Get("student_id"),
		name:      q.Get("name"),
		class:     q.Get("class"),
		date:      q.Get("date"),
		startDate: q.Get("start_date"),
		endDate:   q.Get("end_date"),
	}
	if raw := q.Get("status"); raw != "" {
		f.statuses = []models.AttendanceStatus{models.AttendanceStatus(raw)}
	}

	var out models.AttendanceListResponse
	h.db.Atomic(func(tx *repository.Tx) {
		rows := filterAttendances(tx.Attendances(), f)
		sortBy(rows, attendanceKey(q.Get("sort_by")), q.Get("order"))
		out = paginate(rows, page, pageSize)
	})
	return Success(http.StatusOK, out)
}

// CreateAttendance handles POST /attendances. An unknown student is a 404, never an orphan row.
func (h *Handlers) CreateAttendance(req Request) Result {
	var in models.AttendanceCreate
	if err := req.Bind(&in, h.validate, "invalid attendance payload"); err != nil {
		return Failure(err)
	}

	var (
		created models.Attendance
		err     error
	)
	h.db.Atomic(func(tx *repository.Tx) {
		created, err = tx.AddAttendance(in)
	})
	if err != nil {
		return Failure(err)
	}
	return Success(http.StatusCreated, created)
}

// BatchCreateAttendances handles POST /attendances/batch. Records for unknown students are skipped.
func (h *Handlers) BatchCreateAttendances(req Request) Result {
	var in models.AttendanceBatchCreate
	if err := req.Bind(&in, h.validate, "invalid batch payload"); err != nil {
		return Failure(err)
	}

	var result models.AttendanceBatchResult
	h.db.Atomic(func(tx *repository.Tx) {
		for _, rec := range in.Records {
			_, err := tx.AddAttendance(models.AttendanceCreate{StudentID: rec.StudentID, Date: in.Date, Status: rec.Status})
			if err != nil {
				continue
			}
			result.CreatedCount++
		}
	})
	return Success(http.StatusCreated, result)
}

// GetAttendance handles GET /attendances/:id.
func (h *Handlers) GetAttendance(req Request) Result {
	id, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return Failure(repository.ErrAttendanceNotFound)
	}

	var (
		row   models.Attendance
		found bool
	)
	h.db.Atomic(func(tx *repository.Tx) {
		row, found = tx.Attendance(id)
	})
	if !found {
		return Failure(repository.ErrAttendanceNotFound)
	}
	return Success(http.StatusOK, row)
}

// UpdateAttendance handles PUT /attendances/:id.
func (h *Handlers) UpdateAttendance(req Request) Result {
	id, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return Failure(repository.ErrAttendanceNotFound)
	}
	var in models.AttendanceUpdate
	if err := req.Bind(&in, h.validate, "invalid attendance payload"); err != nil {
		return Failure(err)
	}

	var updated models.Attendance
	h.db.Atomic(func(tx *repository.Tx) {
		updated, err = tx.UpdateAttendance(id, in)
	})
	if err != nil {
		return Failure(err)
	}
	return Success(http.StatusOK, updated)
}

// DeleteAttendance handles DELETE /attendances/:id.
func (h *Handlers) DeleteAttendance(req Request) Result {
	id, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return Failure(repository.ErrAttendanceNotFound)
	}
	h.db.Atomic(func(tx *repository.Tx) {
		err = tx.RemoveAttendance(id)
	})
	if err != nil {
		return Failure(err)
	}
	return NoContent()
}
