package models

// EnrollmentRecord is one confirmed registration. Records are created once,
// never updated or deleted; the pair of start fields distinguishes instances
// sharing a course code.
type EnrollmentRecord struct {
	Instructor   string `db:"instructor" json:"instructor"`
	CourseCode   string `db:"course_code" json:"course_code"`
	VirtualStart string `db:"virtual_start" json:"virtual_start"`
	OnsiteStart  string `db:"onsite_start" json:"onsite_start"`
}

// CapacityKey is the tuple the per-instance enrollment cap counts against.
type CapacityKey struct {
	CourseCode   string
	VirtualStart string
	OnsiteStart  string
}

// CapacityKey returns the capacity key of the record.
func (r EnrollmentRecord) CapacityKey() CapacityKey {
	return CapacityKey{CourseCode: r.CourseCode, VirtualStart: r.VirtualStart, OnsiteStart: r.OnsiteStart}
}
