package mock

import (
	"net/http"
	"strings"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

// ListStudents handles GET /students.
func (h *Handlers) ListStudents(req Request) Result {
	q := req.Query()
	page, pageSize := pageParams(q)

	var out models.StudentListResponse
	h.db.Atomic(func(tx *repository.Tx) {
		students := filterStudents(tx.Students(), q.Get("class"), q.Get("keyword"))
		sortBy(students, studentKey(q.Get("sort_by")), q.Get("order"))
		out = paginate(students, page, pageSize)
	})
	return Success(http.StatusOK, out)
}

// CreateStudent handles POST /students.
func (h *Handlers) CreateStudent(req Request) Result {
	var in models.StudentCreate
	if err := req.Bind(&in, h.validate, "invalid student payload"); err != nil {
		return Failure(err)
	}

	var (
		created models.Student
		err     error
	)
	h.db.Atomic(func(tx *repository.Tx) {
		created, err = tx.AddStudent(models.Student{
			StudentID: strings.TrimSpace(in.StudentID),
			Name:      strings.TrimSpace(in.Name),
			Class:     strings.TrimSpace(in.Class),
		})
	})
	if err != nil {
		return Failure(err)
	}
	return Success(http.StatusCreated, created)
}

// GetStudent handles GET /students/:id.
func (h *Handlers) GetStudent(req Request) Result {
	var (
		student models.Student
		found   bool
	)
	h.db.Atomic(func(tx *repository.Tx) {
		student, found = tx.Student(req.Params["id"])
	})
	if !found {
		return Failure(repository.ErrStudentNotFound)
	}
	return Success(http.StatusOK, student)
}

// UpdateStudent handles PUT /students/:id.
func (h *Handlers) UpdateStudent(req Request) Result {
	var in models.StudentUpdate
	if err := req.Bind(&in, h.validate, "invalid student payload"); err != nil {
		return Failure(err)
	}

	var (
		updated models.Student
		err     error
	)
	h.db.Atomic(func(tx *repository.Tx) {
		updated, err = tx.UpdateStudent(req.Params["id"], in)
	})
	if err != nil {
		return Failure(err)
	}
	return Success(http.StatusOK, updated)
}

// DeleteStudent handles DELETE /students/:id. Attendance rows of the student go with it.
func (h *Handlers) DeleteStudent(req Request) Result {
	var err error
	h.db.Atomic(func(tx *repository.Tx) {
		err = tx.RemoveStudent(req.Params["id"])
	})
	if err != nil {
		return Failure(err)
	}
	return NoContent()
}
