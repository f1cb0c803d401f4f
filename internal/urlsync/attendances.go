package urlsync

import (
	"net/url"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// AttendancesPatch is the validated subset of an attendances query found in a URL.
type AttendancesPatch struct {
	Page      *int
	PageSize  *int
	StudentID *string
	Name      *string
	Class     *string
	Date      *string
	StartDate *string
	EndDate   *string
	Status    *models.AttendanceStatus
	SortBy    *string
	Order     *string
}

// DecodeAttendances extracts an attendances patch, dropping anything that fails validation.
func DecodeAttendances(v url.Values) AttendancesPatch {
	p := AttendancesPatch{
		Page:      positiveInt(v, "page"),
		PageSize:  positiveInt(v, "page_size"),
		StudentID: nonEmpty(v, "student_id"),
		Name:      nonEmpty(v, "name"),
		Class:     nonEmpty(v, "class"),
		Date:      nonEmpty(v, "date"),
		StartDate: nonEmpty(v, "start_date"),
		EndDate:   nonEmpty(v, "end_date"),
		SortBy:    oneOf(v, "sort_by", models.AttendanceSortStudentID, models.AttendanceSortName, models.AttendanceSortDate),
		Order:     oneOf(v, "order", models.OrderAsc, models.OrderDesc),
	}
	if status, ok := models.ParseStatus(v.Get("status")); ok {
		p.Status = &status
	}
	return p
}

// Apply overlays the patch on q.
func (p AttendancesPatch) Apply(q models.AttendancesQuery) models.AttendancesQuery {
	if p.Page != nil {
		q.Page = *p.Page
	}
	if p.PageSize != nil {
		q.PageSize = *p.PageSize
	}
	if p.StudentID != nil {
		q.StudentID = *p.StudentID
	}
	if p.Name != nil {
		q.Name = *p.Name
	}
	if p.Class != nil {
		q.Class = *p.Class
	}
	if p.Date != nil {
		q.Date = *p.Date
	}
	if p.StartDate != nil {
		q.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		q.EndDate = *p.EndDate
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
	if p.SortBy != nil {
		q.SortBy = *p.SortBy
	}
	if p.Order != nil {
		q.Order = *p.Order
	}
	return q
}

// EncodeAttendances renders the non-default fields of q in schema order.
func EncodeAttendances(q models.AttendancesQuery) string {
	d := models.DefaultAttendancesQuery()
	var p params
	p.setInt("page", q.Page, d.Page)
	p.setInt("page_size", q.PageSize, d.PageSize)
	p.setString("student_id", q.StudentID, "")
	p.setString("name", q.Name, "")
	p.setString("class", q.Class, "")
	p.setString("date", q.Date, "")
	p.setString("start_date", q.StartDate, "")
	p.setString("end_date", q.EndDate, "")
	p.setString("status", string(q.Status), "")
	p.setString("sort_by", q.SortBy, d.SortBy)
	p.setString("order", q.Order, d.Order)
	return p.encode()
}

// AttendancesCodec is the Codec for the attendances view.
type AttendancesCodec struct{}

func (AttendancesCodec) Resolve(v url.Values) models.AttendancesQuery {
	return DecodeAttendances(v).Apply(models.DefaultAttendancesQuery())
}

func (AttendancesCodec) Encode(q models.AttendancesQuery) string {
	return EncodeAttendances(q)
}

func (AttendancesCodec) Canonical(q models.AttendancesQuery) models.AttendancesQuery {
	d := models.DefaultAttendancesQuery()
	q.Page = positiveOr(q.Page, d.Page)
	q.PageSize = positiveOr(q.PageSize, d.PageSize)
	q.Order = orDefault(q.Order, d.Order)
	return q
}
