package models

// AttendanceStatus enumerates the daily attendance outcomes.
type AttendanceStatus string

const (
	StatusPresent       AttendanceStatus = "present"
	StatusAbsent        AttendanceStatus = "absent"
	StatusPersonalLeave AttendanceStatus = "personal_leave"
	StatusSickLeave     AttendanceStatus = "sick_leave"
	StatusLate          AttendanceStatus = "late"
	StatusEarlyLeave    AttendanceStatus = "early_leave"
)

// AllStatuses lists every status in display order.
var AllStatuses = []AttendanceStatus{
	StatusPresent,
	StatusAbsent,
	StatusPersonalLeave,
	StatusSickLeave,
	StatusLate,
	StatusEarlyLeave,
}

// AbnormalStatuses are the statuses reported by the abnormal report.
var AbnormalStatuses = []AttendanceStatus{StatusAbsent, StatusLate, StatusEarlyLeave}

// LeaveStatuses are the statuses reported by the leave report.
var LeaveStatuses = []AttendanceStatus{StatusPersonalLeave, StatusSickLeave}

var statusSymbols = map[AttendanceStatus]string{
	StatusPresent:       "√",
	StatusAbsent:        "X",
	StatusPersonalLeave: "△",
	StatusSickLeave:     "○",
	StatusLate:          "+",
	StatusEarlyLeave:    "–",
}

var statusLabels = map[AttendanceStatus]string{
	StatusPresent:       "出勤",
	StatusAbsent:        "旷课",
	StatusPersonalLeave: "事假",
	StatusSickLeave:     "病假",
	StatusLate:          "迟到",
	StatusEarlyLeave:    "早退",
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	_, ok := statusSymbols[s]
	return ok
}

// Symbol returns the register symbol printed for the status.
func (s AttendanceStatus) Symbol() string {
	return statusSymbols[s]
}

// Label returns the human readable status name.
func (s AttendanceStatus) Label() string {
	return statusLabels[s]
}

// ParseStatus returns the status for an exact literal match.
func ParseStatus(raw string) (AttendanceStatus, bool) {
	s := AttendanceStatus(raw)
	return s, s.Valid()
}

// Attendance is one student's status on one day. Name and Class are denormalised from the student.
type Attendance struct {
	ID           int              `json:"id"`
	StudentID    string           `json:"student_id"`
	Name         string           `json:"name"`
	Class        string           `json:"class"`
	Date         string           `json:"date"`
	Status       AttendanceStatus `json:"status"`
	StatusSymbol string           `json:"status_symbol"`
	Remark       string           `json:"remark"`
}

// AttendanceCreate is the payload accepted by POST /attendances.
type AttendanceCreate struct {
	StudentID string           `json:"student_id" validate:"required"`
	Date      string           `json:"date" validate:"required,mmdd"`
	Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Remark    string           `json:"remark,omitempty" validate:"max=200"`
}

// AttendanceBatchRecord is one row of a batch create.
type AttendanceBatchRecord struct {
	StudentID string           `json:"student_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

// AttendanceBatchCreate is the payload accepted by POST /attendances/batch.
type AttendanceBatchCreate struct {
	Date    string                  `json:"date" validate:"required,mmdd"`
	Records []AttendanceBatchRecord `json:"records" validate:"required,dive"`
}

// AttendanceBatchResult reports how many rows a batch created.
type AttendanceBatchResult struct {
	CreatedCount int `json:"created_count"`
}

// AttendanceUpdate is the payload accepted by PUT /attendances/{id}. Nil fields are left untouched.
type AttendanceUpdate struct {
	Status *AttendanceStatus `json:"status,omitempty" validate:"omitempty,attendance_status"`
	Remark *string           `json:"remark,omitempty" validate:"omitempty,max=200"`
}

// AttendanceListResponse is the paginated attendance list payload.
type AttendanceListResponse = ListResponse[Attendance]
