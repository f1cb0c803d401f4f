package models

// Student represents a learner registered in a class. StudentID is the unique key.
type Student struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Class     string `json:"class" validate:"required"`
}

// StudentBasic is the reduced student shape returned for class rosters.
type StudentBasic struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}

// StudentCreate is the payload accepted by POST /students.
type StudentCreate struct {
	StudentID string `json:"student_id" validate:"required,max=32"`
	Name      string `json:"name" validate:"required,max=64"`
	Class     string `json:"class" validate:"required,max=64"`
}

// StudentUpdate is the payload accepted by PUT /students/{id}. Nil fields are left untouched.
type StudentUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Class *string `json:"class,omitempty" validate:"omitempty,min=1,max=64"`
}

// StudentListResponse is the paginated student list payload.
type StudentListResponse = ListResponse[Student]
