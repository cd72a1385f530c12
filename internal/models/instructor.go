package models

// InstructorAuthorization is one row of the instructor reference table. The
// same instructor may appear on several rows; the effective authorized set is
// the union across all rows sharing the normalized key.
type InstructorAuthorization struct {
	InstructorName string   `json:"instructor"`
	InstructorKey  string   `json:"-"`
	Courses        []string `json:"courses"`
}
