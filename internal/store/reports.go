package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/urlsync"
)

// ReportsAPI is the slice of the REST client used by ReportsStore.
type ReportsAPI interface {
	DailyReport(ctx context.Context, q models.DailyReportQuery) (models.DailyReport, error)
	DetailsReport(ctx context.Context, q models.DetailsReportQuery) (models.AttendanceDetailsReport, error)
	SummaryReport(ctx context.Context, q models.SummaryReportQuery) (models.SummaryReport, error)
	AbnormalReport(ctx context.Context, q models.AbnormalReportQuery) (models.AbnormalReport, error)
	LeaveReport(ctx context.Context, q models.LeaveReportQuery) (models.LeaveReport, error)
}

// ReportsSnapshot is the observable state of ReportsStore.
type ReportsSnapshot struct {
	State    urlsync.ReportsState
	Daily    *models.DailyReport
	Details  *models.AttendanceDetailsReport
	Summary  *models.SummaryReport
	Abnormal *models.AbnormalReport
	Leave    *models.LeaveReport
	Loading  bool
	Error    string
}

// ReportsStore holds the reports page: the active tab, each panel's filters and the
// last result per panel. It is the urlsync target of the reports view.
type ReportsStore struct {
	api    ReportsAPI
	logger *zap.Logger

	mu       sync.RWMutex
	state    urlsync.ReportsState
	daily    *models.DailyReport
	details  *models.AttendanceDetailsReport
	summary  *models.SummaryReport
	abnormal *models.AbnormalReport
	leave    *models.LeaveReport
	inflight int
	err      string
	seq      map[models.ReportsTab]uint64
}

// NewReportsStore constructs the store from an initial page state, typically the
// persisted panel filters.
func NewReportsStore(api ReportsAPI, initial urlsync.ReportsState, logger *zap.Logger) *ReportsStore {
	if !initial.Tab.Valid() {
		initial.Tab = urlsync.DefaultTab
	}
	return &ReportsStore{
		api:    api,
		logger: nopIfNil(logger),
		state:  initial,
		seq:    make(map[models.ReportsTab]uint64, len(models.ReportTabs)),
	}
}

// Query returns the current page state.
func (s *ReportsStore) Query() urlsync.ReportsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetTab switches the active tab without fetching. Unknown tabs are ignored.
func (s *ReportsStore) SetTab(tab models.ReportsTab) {
	if !tab.Valid() {
		return
	}
	s.mu.Lock()
	s.state.Tab = tab
	s.mu.Unlock()
}

// Snapshot returns a copy of the store state.
func (s *ReportsStore) Snapshot() ReportsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ReportsSnapshot{
		State:    s.state,
		Daily:    s.daily,
		Details:  s.details,
		Summary:  s.summary,
		Abnormal: s.abnormal,
		Leave:    s.leave,
		Loading:  s.inflight > 0,
		Error:    s.err,
	}
}

// ClearError resets the error state.
func (s *ReportsStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Fetch replaces the whole page state and loads the active tab.
func (s *ReportsStore) Fetch(ctx context.Context, st urlsync.ReportsState) error {
	if !st.Tab.Valid() {
		st.Tab = urlsync.DefaultTab
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	switch st.Tab {
	case models.TabDetails:
		return s.FetchDetails(ctx, st.Details)
	case models.TabSummary:
		return s.FetchSummary(ctx, st.Summary)
	case models.TabAbnormal:
		return s.FetchAbnormal(ctx, st.Abnormal)
	case models.TabLeave:
		return s.FetchLeave(ctx, st.Leave)
	default:
		return s.FetchDaily(ctx, st.Daily)
	}
}

// FetchDaily loads the daily report.
func (s *ReportsStore) FetchDaily(ctx context.Context, q models.DailyReportQuery) error {
	return fetchReport(ctx, s, models.TabDaily, q,
		func(st *urlsync.ReportsState) { st.Daily = q },
		s.api.DailyReport,
		func(r *models.DailyReport) { s.daily = r },
		"获取日报表失败")
}

// FetchDetails loads the details report.
func (s *ReportsStore) FetchDetails(ctx context.Context, q models.DetailsReportQuery) error {
	return fetchReport(ctx, s, models.TabDetails, q,
		func(st *urlsync.ReportsState) { st.Details = q },
		s.api.DetailsReport,
		func(r *models.AttendanceDetailsReport) { s.details = r },
		"获取考勤明细失败")
}

// FetchSummary loads the summary report.
func (s *ReportsStore) FetchSummary(ctx context.Context, q models.SummaryReportQuery) error {
	return fetchReport(ctx, s, models.TabSummary, q,
		func(st *urlsync.ReportsState) { st.Summary = q },
		s.api.SummaryReport,
		func(r *models.SummaryReport) { s.summary = r },
		"获取汇总表失败")
}

// FetchAbnormal loads the abnormal report.
func (s *ReportsStore) FetchAbnormal(ctx context.Context, q models.AbnormalReportQuery) error {
	return fetchReport(ctx, s, models.TabAbnormal, q,
		func(st *urlsync.ReportsState) { st.Abnormal = q },
		s.api.AbnormalReport,
		func(r *models.AbnormalReport) { s.abnormal = r },
		"获取异常表失败")
}

// FetchLeave loads the leave report.
func (s *ReportsStore) FetchLeave(ctx context.Context, q models.LeaveReportQuery) error {
	return fetchReport(ctx, s, models.TabLeave, q,
		func(st *urlsync.ReportsState) { st.Leave = q },
		s.api.LeaveReport,
		func(r *models.LeaveReport) { s.leave = r },
		"获取请假汇总失败")
}

// fetchReport records q as the panel's filter, calls the API and keeps the result
// unless a newer fetch for the same tab was issued meanwhile.
func fetchReport[Q any, R any](
	ctx context.Context,
	s *ReportsStore,
	tab models.ReportsTab,
	q Q,
	record func(*urlsync.ReportsState),
	call func(context.Context, Q) (R, error),
	keep func(*R),
	fallback string,
) error {
	s.mu.Lock()
	record(&s.state)
	s.seq[tab]++
	seq := s.seq[tab]
	s.inflight++
	s.err = ""
	s.mu.Unlock()

	res, err := call(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if seq != s.seq[tab] {
		s.logger.Debug("discarding stale report", zap.String("tab", string(tab)))
		return err
	}
	if err != nil {
		s.err = errorMessage(err, fallback)
		return err
	}
	keep(&res)
	return nil
}
