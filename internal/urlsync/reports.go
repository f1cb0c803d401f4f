package urlsync

import (
	"net/url"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// Key prefixes of each report sub-tab. The tab itself uses the bare "tab" key.
const (
	TabKey         = "tab"
	DailyPrefix    = "daily_"
	DetailsPrefix  = "details_"
	SummaryPrefix  = "summary_"
	AbnormalPrefix = "abnormal_"
	LeavePrefix    = "leave_"
)

// DefaultTab is the tab shown when the URL names none.
const DefaultTab = models.TabDaily

// ReportsState is the whole URL-visible state of the reports page.
type ReportsState struct {
	Tab      models.ReportsTab
	Daily    models.DailyReportQuery
	Details  models.DetailsReportQuery
	Summary  models.SummaryReportQuery
	Abnormal models.AbnormalReportQuery
	Leave    models.LeaveReportQuery
}

// DecodeTab returns the tab named by the URL, or nil when absent or unknown.
func DecodeTab(v url.Values) *models.ReportsTab {
	tab := models.ReportsTab(v.Get(TabKey))
	if !tab.Valid() {
		return nil
	}
	return &tab
}

// DailyPatch is the daily panel's URL subset.
type DailyPatch struct {
	Date  *string
	Class *string
}

// DecodeDaily reads the daily_ keys.
func DecodeDaily(v url.Values) DailyPatch {
	return DailyPatch{
		Date:  nonEmpty(v, DailyPrefix+"date"),
		Class: nonEmpty(v, DailyPrefix+"class"),
	}
}

// Apply overlays the patch on q.
func (p DailyPatch) Apply(q models.DailyReportQuery) models.DailyReportQuery {
	assign(&q.Date, p.Date)
	assign(&q.Class, p.Class)
	return q
}

// PeriodPatch is the URL subset shared by the period-based panels.
type PeriodPatch struct {
	StartDate *string
	EndDate   *string
	Class     *string
}

func decodePeriod(v url.Values, prefix string) PeriodPatch {
	return PeriodPatch{
		StartDate: nonEmpty(v, prefix+"start_date"),
		EndDate:   nonEmpty(v, prefix+"end_date"),
		Class:     nonEmpty(v, prefix+"class"),
	}
}

// DetailsPatch is the details panel's URL subset.
type DetailsPatch struct {
	PeriodPatch
	StudentID *string
}

// DecodeDetails reads the details_ keys.
func DecodeDetails(v url.Values) DetailsPatch {
	return DetailsPatch{
		PeriodPatch: decodePeriod(v, DetailsPrefix),
		StudentID:   nonEmpty(v, DetailsPrefix+"student_id"),
	}
}

// Apply overlays the patch on q.
func (p DetailsPatch) Apply(q models.DetailsReportQuery) models.DetailsReportQuery {
	assign(&q.StartDate, p.StartDate)
	assign(&q.EndDate, p.EndDate)
	assign(&q.Class, p.Class)
	assign(&q.StudentID, p.StudentID)
	return q
}

// DecodeSummary reads the summary_ keys.
func DecodeSummary(v url.Values) PeriodPatch {
	return decodePeriod(v, SummaryPrefix)
}

// ApplySummary overlays the patch on q.
func (p PeriodPatch) ApplySummary(q models.SummaryReportQuery) models.SummaryReportQuery {
	assign(&q.StartDate, p.StartDate)
	assign(&q.EndDate, p.EndDate)
	assign(&q.Class, p.Class)
	return q
}

// TypedPeriodPatch is the URL subset of the abnormal and leave panels.
type TypedPeriodPatch struct {
	PeriodPatch
	Type *models.AttendanceStatus
}

// DecodeAbnormal reads the abnormal_ keys. The type must be an abnormal status.
func DecodeAbnormal(v url.Values) TypedPeriodPatch {
	return TypedPeriodPatch{
		PeriodPatch: decodePeriod(v, AbnormalPrefix),
		Type:        statusIn(v.Get(AbnormalPrefix+"type"), models.AbnormalStatuses),
	}
}

// DecodeLeave reads the leave_ keys. The type must be a leave status.
func DecodeLeave(v url.Values) TypedPeriodPatch {
	return TypedPeriodPatch{
		PeriodPatch: decodePeriod(v, LeavePrefix),
		Type:        statusIn(v.Get(LeavePrefix+"type"), models.LeaveStatuses),
	}
}

// ApplyAbnormal overlays the patch on q.
func (p TypedPeriodPatch) ApplyAbnormal(q models.AbnormalReportQuery) models.AbnormalReportQuery {
	assign(&q.StartDate, p.StartDate)
	assign(&q.EndDate, p.EndDate)
	assign(&q.Class, p.Class)
	if p.Type != nil {
		q.Type = *p.Type
	}
	return q
}

// ApplyLeave overlays the patch on q.
func (p TypedPeriodPatch) ApplyLeave(q models.LeaveReportQuery) models.LeaveReportQuery {
	assign(&q.StartDate, p.StartDate)
	assign(&q.EndDate, p.EndDate)
	assign(&q.Class, p.Class)
	if p.Type != nil {
		q.Type = *p.Type
	}
	return q
}

// DecodeReports decodes every report key and overlays it on base.
func DecodeReports(v url.Values, base ReportsState) ReportsState {
	if tab := DecodeTab(v); tab != nil {
		base.Tab = *tab
	}
	base.Daily = DecodeDaily(v).Apply(base.Daily)
	base.Details = DecodeDetails(v).Apply(base.Details)
	base.Summary = DecodeSummary(v).ApplySummary(base.Summary)
	base.Abnormal = DecodeAbnormal(v).ApplyAbnormal(base.Abnormal)
	base.Leave = DecodeLeave(v).ApplyLeave(base.Leave)
	return base
}

// EncodeReports renders the tab (omitted when it is the default) followed by each panel's set keys.
// Inactive panels are encoded too: a link restores every panel, and Resolve(Encode(s)) == s
// holds for the whole page state, which SyncFromURL relies on when comparing.
func EncodeReports(s ReportsState) string {
	var p params
	p.setString(TabKey, string(s.Tab), string(DefaultTab))

	p.setString(DailyPrefix+"date", s.Daily.Date, "")
	p.setString(DailyPrefix+"class", s.Daily.Class, "")

	encodePeriod(&p, DetailsPrefix, s.Details.StartDate, s.Details.EndDate, s.Details.Class)
	p.setString(DetailsPrefix+"student_id", s.Details.StudentID, "")

	encodePeriod(&p, SummaryPrefix, s.Summary.StartDate, s.Summary.EndDate, s.Summary.Class)

	encodePeriod(&p, AbnormalPrefix, s.Abnormal.StartDate, s.Abnormal.EndDate, s.Abnormal.Class)
	p.setString(AbnormalPrefix+"type", string(s.Abnormal.Type), "")

	encodePeriod(&p, LeavePrefix, s.Leave.StartDate, s.Leave.EndDate, s.Leave.Class)
	p.setString(LeavePrefix+"type", string(s.Leave.Type), "")

	return p.encode()
}

func encodePeriod(p *params, prefix, start, end, class string) {
	p.setString(prefix+"start_date", start, "")
	p.setString(prefix+"end_date", end, "")
	p.setString(prefix+"class", class, "")
}

// ReportsCodec is the Codec for the reports page.
type ReportsCodec struct{}

func (ReportsCodec) Resolve(v url.Values) ReportsState {
	return DecodeReports(v, ReportsState{Tab: DefaultTab})
}

func (ReportsCodec) Encode(s ReportsState) string {
	return EncodeReports(s)
}

func (ReportsCodec) Canonical(s ReportsState) ReportsState {
	if !s.Tab.Valid() {
		s.Tab = DefaultTab
	}
	return s
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func statusIn(raw string, allowed []models.AttendanceStatus) *models.AttendanceStatus {
	for _, s := range allowed {
		if string(s) == raw {
			status := s
			return &status
		}
	}
	return nil
}
