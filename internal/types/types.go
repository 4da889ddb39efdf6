// Package types holds the data structures shared by the handlers, the
// storage backends and the advisor. Keeping them in one place prevents
// import cycles between those packages.
package types

// Student is a single student record.
//
// Advice stays empty (and is left out of the JSON) until it has been
// generated for the student.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Major  string `json:"major"`
	Advice string `json:"advice,omitempty"`
}

// CreateStudentRequest is the body accepted by POST /students.
//
// Only the name is required; email and major default to "".
type CreateStudentRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email"`
	Major string `json:"major"`
}

// UpdateStudentRequest is the body accepted by PUT /students/{id}.
//
// Every field is a pointer so that "not sent" and "sent as empty" can be
// told apart: only the fields present in the body are merged into the
// stored record. An "id" key in the body has no field here and is ignored.
type UpdateStudentRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Major  *string `json:"major"`
	Advice *string `json:"advice"`
}

// Empty reports whether the request carries no known field.
func (r UpdateStudentRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Major == nil && r.Advice == nil
}

// Patch converts the request into the storage-level patch.
func (r UpdateStudentRequest) Patch() StudentPatch {
	return StudentPatch{
		Name:   r.Name,
		Email:  r.Email,
		Major:  r.Major,
		Advice: r.Advice,
	}
}

// StudentPatch is a partial update; nil fields are left untouched.
type StudentPatch struct {
	Name   *string
	Email  *string
	Major  *string
	Advice *string
}

// Apply merges the patch into s. The id is never touched.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Major != nil {
		s.Major = *p.Major
	}
	if p.Advice != nil {
		s.Advice = *p.Advice
	}
}

// StudentList is the body returned by GET /students.
type StudentList struct {
	Students []Student `json:"students"`
	Total    int       `json:"total"`
}

// AdviceResult is returned after advice has been generated.
type AdviceResult struct {
	ID     int64  `json:"id"`
	Major  string `json:"major"`
	Advice string `json:"advice"`
}

// AdviceView is returned when previously generated advice is read back.
type AdviceView struct {
	ID     int64  `json:"id"`
	Advice string `json:"advice"`
}
