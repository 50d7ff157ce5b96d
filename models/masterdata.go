package models

// ClassSubject is the embedded subject association the backend returns
// on each class record.
type ClassSubject struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
}

// SubjectRef is the flat projection of a ClassSubject consumed by the
// CRUD pages.
type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassRecord is a class as served by GET /api/MasterData/classes.
// Subjects and SubjectIDs are filled client-side by normalization and
// are never nil after it runs.
type ClassRecord struct {
	ID            string         `json:"id,omitempty"`
	Grade         string         `json:"grade"`
	Section       string         `json:"section"`
	Name          string         `json:"name,omitempty"`
	ClassSubjects []ClassSubject `json:"classSubjects,omitempty"`
	Subjects      []SubjectRef   `json:"subjects"`
	SubjectIDs    []string       `json:"subjectIds"`
}

// SubjectRecord is a subject as served by GET /api/MasterData/subjects.
type SubjectRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
