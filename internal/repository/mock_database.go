package repository

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

var (
	// ErrStudentExists is returned when creating a student whose id is taken.
	ErrStudentExists = appErrors.New(409, "学号已存在")
	// ErrStudentNotFound is returned when a student id does not exist.
	ErrStudentNotFound = appErrors.New(404, "学生不存在")
	// ErrAttendanceNotFound is returned when an attendance id does not exist.
	ErrAttendanceNotFound = appErrors.New(404, "考勤记录不存在")
)

// MockDatabase is the in-memory dataset behind the mock API. All access goes through
// Atomic so each handler invocation observes and mutates a consistent state.
type MockDatabase struct {
	mu     sync.Mutex
	cfg    GeneratorConfig
	logger *zap.Logger

	students         []models.Student
	attendances      []models.Attendance
	nextAttendanceID int
	generatedAt      time.Time
}

// NewMockDatabase generates the initial dataset.
func NewMockDatabase(cfg GeneratorConfig, logger *zap.Logger) *MockDatabase {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &MockDatabase{cfg: cfg.withDefaults(), logger: logger}
	db.Reset()
	return db
}

// Reset regenerates every entity and restarts attendance ids after the generated rows.
func (db *MockDatabase) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	gen := newGenerator(db.cfg)
	db.students = gen.students(db.cfg.Students)
	db.attendances = gen.attendances(db.students, db.cfg.Days)
	db.nextAttendanceID = len(db.attendances) + 1
	db.generatedAt = gen.now

	db.logger.Info("mock database generated",
		zap.Int("students", len(db.students)),
		zap.Int("attendances", len(db.attendances)),
	)
}

// Atomic runs fn while holding the database lock.
func (db *MockDatabase) Atomic(fn func(tx *Tx)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	fn(&Tx{db: db})
}

// MockStats summarises the dataset for the admin endpoint.
type MockStats struct {
	Students    int          `json:"students"`
	Attendances int          `json:"attendances"`
	Classes     int          `json:"classes"`
	GeneratedAt time.Time    `json:"generated_at"`
	Statuses    []StatusStat `json:"statuses"`
}

// StatusStat is the share of attendance rows with one status. Percent has one decimal.
type StatusStat struct {
	Status  models.AttendanceStatus `json:"status"`
	Label   string                  `json:"label"`
	Symbol  string                  `json:"symbol"`
	Count   int                     `json:"count"`
	Percent string                  `json:"percent"`
}

// Stats computes entity counts and the status distribution.
func (db *MockDatabase) Stats() MockStats {
	var stats MockStats
	db.Atomic(func(tx *Tx) {
		stats = MockStats{
			Students:    len(db.students),
			Attendances: len(db.attendances),
			Classes:     len(tx.Classes()),
			GeneratedAt: db.generatedAt,
		}
		counts := make(map[models.AttendanceStatus]int, len(models.AllStatuses))
		for _, a := range db.attendances {
			counts[a.Status]++
		}
		for _, status := range models.AllStatuses {
			stats.Statuses = append(stats.Statuses, StatusStat{
				Status:  status,
				Label:   status.Label(),
				Symbol:  status.Symbol(),
				Count:   counts[status],
				Percent: percent(counts[status], len(db.attendances)),
			})
		}
	})
	return stats
}

// Tx is a handle valid only inside Atomic. Returned slices are copies.
type Tx struct {
	db *MockDatabase
}

// Students returns every student in insertion order.
func (tx *Tx) Students() []models.Student {
	return append([]models.Student(nil), tx.db.students...)
}

// Attendances returns every attendance row in insertion order.
func (tx *Tx) Attendances() []models.Attendance {
	return append([]models.Attendance(nil), tx.db.attendances...)
}

// Student looks up a student by id.
func (tx *Tx) Student(studentID string) (models.Student, bool) {
	if i := tx.studentIndex(studentID); i >= 0 {
		return tx.db.students[i], true
	}
	return models.Student{}, false
}

// AddStudent appends a student, rejecting duplicate ids.
func (tx *Tx) AddStudent(s models.Student) (models.Student, error) {
	if tx.studentIndex(s.StudentID) >= 0 {
		return models.Student{}, ErrStudentExists
	}
	tx.db.students = append(tx.db.students, s)
	return s, nil
}

// UpdateStudent applies the non-nil fields and propagates them to the student's attendance rows.
func (tx *Tx) UpdateStudent(studentID string, upd models.StudentUpdate) (models.Student, error) {
	i := tx.studentIndex(studentID)
	if i < 0 {
		return models.Student{}, ErrStudentNotFound
	}
	s := &tx.db.students[i]
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Class != nil {
		s.Class = *upd.Class
	}
	for j := range tx.db.attendances {
		if tx.db.attendances[j].StudentID == studentID {
			tx.db.attendances[j].Name = s.Name
			tx.db.attendances[j].Class = s.Class
		}
	}
	return *s, nil
}

// RemoveStudent deletes a student and every attendance row referencing it.
func (tx *Tx) RemoveStudent(studentID string) error {
	i := tx.studentIndex(studentID)
	if i < 0 {
		return ErrStudentNotFound
	}
	tx.db.students = append(tx.db.students[:i], tx.db.students[i+1:]...)

	kept := tx.db.attendances[:0]
	for _, a := range tx.db.attendances {
		if a.StudentID != studentID {
			kept = append(kept, a)
		}
	}
	tx.db.attendances = kept
	return nil
}

// Attendance looks up an attendance row by id.
func (tx *Tx) Attendance(id int) (models.Attendance, bool) {
	if i := tx.attendanceIndex(id); i >= 0 {
		return tx.db.attendances[i], true
	}
	return models.Attendance{}, false
}

// AddAttendance creates a row for an existing student with the next id.
func (tx *Tx) AddAttendance(in models.AttendanceCreate) (models.Attendance, error) {
	s, ok := tx.Student(in.StudentID)
	if !ok {
		return models.Attendance{}, ErrStudentNotFound
	}
	a := models.Attendance{
		ID:           tx.db.nextAttendanceID,
		StudentID:    s.StudentID,
		Name:         s.Name,
		Class:        s.Class,
		Date:         in.Date,
		Status:       in.Status,
		StatusSymbol: in.Status.Symbol(),
		Remark:       in.Remark,
	}
	tx.db.nextAttendanceID++
	tx.db.attendances = append(tx.db.attendances, a)
	return a, nil
}

// UpdateAttendance applies the non-nil fields. A new status also refreshes the symbol.
func (tx *Tx) UpdateAttendance(id int, upd models.AttendanceUpdate) (models.Attendance, error) {
	i := tx.attendanceIndex(id)
	if i < 0 {
		return models.Attendance{}, ErrAttendanceNotFound
	}
	a := &tx.db.attendances[i]
	if upd.Status != nil {
		a.Status = *upd.Status
		a.StatusSymbol = upd.Status.Symbol()
	}
	if upd.Remark != nil {
		a.Remark = *upd.Remark
	}
	return *a, nil
}

// RemoveAttendance deletes one row.
func (tx *Tx) RemoveAttendance(id int) error {
	i := tx.attendanceIndex(id)
	if i < 0 {
		return ErrAttendanceNotFound
	}
	tx.db.attendances = append(tx.db.attendances[:i], tx.db.attendances[i+1:]...)
	return nil
}

// Classes lists distinct classes with headcounts, in order of first appearance.
func (tx *Tx) Classes() []models.ClassInfo {
	index := make(map[string]int)
	var classes []models.ClassInfo
	for _, s := range tx.db.students {
		i, ok := index[s.Class]
		if !ok {
			i = len(classes)
			index[s.Class] = i
			classes = append(classes, models.ClassInfo{Name: s.Class})
		}
		classes[i].StudentCount++
	}
	return classes
}

// ClassStudents returns the roster of one class.
func (tx *Tx) ClassStudents(class string) []models.StudentBasic {
	roster := make([]models.StudentBasic, 0)
	for _, s := range tx.db.students {
		if s.Class == class {
			roster = append(roster, models.StudentBasic{StudentID: s.StudentID, Name: s.Name})
		}
	}
	return roster
}

// Dates returns the distinct attendance dates, ascending.
func (tx *Tx) Dates() []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, a := range tx.db.attendances {
		if _, ok := seen[a.Date]; !ok {
			seen[a.Date] = struct{}{}
			dates = append(dates, a.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

func (tx *Tx) studentIndex(studentID string) int {
	for i, s := range tx.db.students {
		if s.StudentID == studentID {
			return i
		}
	}
	return -1
}

func (tx *Tx) attendanceIndex(id int) int {
	for i, a := range tx.db.attendances {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func percent(count, total int) string {
	if total <= 0 {
		return "0"
	}
	return formatFloat(float64(count) / float64(total) * 100)
}
