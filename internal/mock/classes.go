package mock

import (
	"net/http"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
)

// ListClasses handles GET /classes.
func (h *Handlers) ListClasses(Request) Result {
	classes := []models.ClassInfo{}
	h.db.Atomic(func(tx *repository.Tx) {
		classes = append(classes, tx.Classes()...)
	})
	return Success(http.StatusOK, classes)
}

// ClassStudents handles GET /classes/:name/students. An unknown class yields an empty roster.
func (h *Handlers) ClassStudents(req Request) Result {
	name := req.Params["name"]
	out := models.ClassStudentsResponse{Class: name}
	h.db.Atomic(func(tx *repository.Tx) {
		out.Students = tx.ClassStudents(name)
	})
	return Success(http.StatusOK, out)
}
