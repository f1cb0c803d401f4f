package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, "0.00%", AttendanceRate(0, 0))
	assert.Equal(t, "70.00%", AttendanceRate(7, 10))
	assert.Equal(t, "33.33%", AttendanceRate(1, 3))
	assert.Equal(t, "100.00%", AttendanceRate(4, 4))
}

func TestStatusMetadata(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid())
		assert.NotEmpty(t, s.Symbol())
		assert.NotEmpty(t, s.Label())
	}
	_, ok := ParseStatus("Present")
	assert.False(t, ok)
	assert.Equal(t, "–", StatusEarlyLeave.Symbol())
}

func TestMMDD(t *testing.T) {
	assert.True(t, IsMMDD("03-01"))
	assert.False(t, IsMMDD("3-1"))
	assert.False(t, IsMMDD("2024-03-01"))
	assert.Equal(t, "12-09", FormatMMDD(time.Date(2026, 12, 9, 0, 0, 0, 0, time.UTC)))
}

func TestQueryValuesSkipEmpty(t *testing.T) {
	v := DefaultAttendancesQuery().Values()
	assert.Equal(t, "order=asc&page=1&page_size=20", v.Encode())

	r := AbnormalReportQuery{StartDate: "03-01", EndDate: "03-07"}.Values()
	assert.Equal(t, "end_date=03-07&start_date=03-01", r.Encode())
}

func TestPayloadValidation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(AttendanceCreate{StudentID: "2024001", Date: "03-07", Status: StatusLate}))
	assert.Error(t, v.Struct(AttendanceCreate{StudentID: "2024001", Date: "3/7", Status: StatusLate}))
	assert.Error(t, v.Struct(AttendanceCreate{StudentID: "2024001", Date: "03-07", Status: "tardy"}))

	assert.Error(t, v.Struct(AttendanceBatchCreate{Date: "03-07", Records: []AttendanceBatchRecord{{StudentID: "x", Status: "bad"}}}))
	assert.NoError(t, v.Struct(StudentCreate{StudentID: "T1", Name: "A", Class: "C1"}))
	assert.Error(t, v.Struct(StudentCreate{StudentID: "T1"}))
}
