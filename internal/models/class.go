package models

// ClassInfo summarises a class and its headcount.
type ClassInfo struct {
	Name         string `json:"name"`
	StudentCount int    `json:"student_count"`
}

// ClassStudentsResponse is the roster of one class.
type ClassStudentsResponse struct {
	Class    string         `json:"class"`
	Students []StudentBasic `json:"students"`
}
