package urlsync

import (
	"net/url"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// StudentsPatch is the validated subset of a students query found in a URL.
type StudentsPatch struct {
	Page     *int
	PageSize *int
	SortBy   *string
	Order    *string
	Class    *string
	Keyword  *string
}

// DecodeStudents extracts a students patch, dropping anything that fails validation.
func DecodeStudents(v url.Values) StudentsPatch {
	return StudentsPatch{
		Page:     positiveInt(v, "page"),
		PageSize: positiveInt(v, "page_size"),
		SortBy:   oneOf(v, "sort_by", models.StudentSortID, models.StudentSortName, models.StudentSortClass),
		Order:    oneOf(v, "order", models.OrderAsc, models.OrderDesc),
		Class:    nonEmpty(v, "class"),
		Keyword:  nonEmpty(v, "keyword"),
	}
}

// Apply overlays the patch on q.
func (p StudentsPatch) Apply(q models.StudentsQuery) models.StudentsQuery {
	if p.Page != nil {
		q.Page = *p.Page
	}
	if p.PageSize != nil {
		q.PageSize = *p.PageSize
	}
	if p.SortBy != nil {
		q.SortBy = *p.SortBy
	}
	if p.Order != nil {
		q.Order = *p.Order
	}
	if p.Class != nil {
		q.Class = *p.Class
	}
	if p.Keyword != nil {
		q.Keyword = *p.Keyword
	}
	return q
}

// EncodeStudents renders the non-default fields of q in schema order.
func EncodeStudents(q models.StudentsQuery) string {
	d := models.DefaultStudentsQuery()
	var p params
	p.setInt("page", q.Page, d.Page)
	p.setInt("page_size", q.PageSize, d.PageSize)
	p.setString("sort_by", q.SortBy, d.SortBy)
	p.setString("order", q.Order, d.Order)
	p.setString("class", q.Class, "")
	p.setString("keyword", q.Keyword, "")
	return p.encode()
}

// StudentsCodec is the Codec for the students view.
type StudentsCodec struct{}

func (StudentsCodec) Resolve(v url.Values) models.StudentsQuery {
	return DecodeStudents(v).Apply(models.DefaultStudentsQuery())
}

func (StudentsCodec) Encode(q models.StudentsQuery) string {
	return EncodeStudents(q)
}

func (StudentsCodec) Canonical(q models.StudentsQuery) models.StudentsQuery {
	d := models.DefaultStudentsQuery()
	q.Page = positiveOr(q.Page, d.Page)
	q.PageSize = positiveOr(q.PageSize, d.PageSize)
	q.SortBy = orDefault(q.SortBy, d.SortBy)
	q.Order = orDefault(q.Order, d.Order)
	return q
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
