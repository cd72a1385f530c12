package models

// CourseInstance is one scheduled occurrence of a course from the catalog
// table. Year is nil when the source field held no four-digit run; such rows
// never match a year filter. Schedule fields are display-formatted opaque
// strings, not date-arithmetic targets.
type CourseInstance struct {
	CourseCode   string `json:"course_code"`
	Year         *int   `json:"year,omitempty"`
	VirtualStart string `json:"virtual_start"`
	VirtualEnd   string `json:"virtual_end"`
	OnsiteStart  string `json:"onsite_start"`
	OnsiteEnd    string `json:"onsite_end"`
}

// CapacityKey identifies the instance for the purpose of the enrollment cap.
func (i CourseInstance) CapacityKey() CapacityKey {
	return CapacityKey{CourseCode: i.CourseCode, VirtualStart: i.VirtualStart, OnsiteStart: i.OnsiteStart}
}

// ReferenceSnapshot is the immutable pair of reference tables loaded for a
// session. It is replaced wholesale on refresh, never mutated.
type ReferenceSnapshot struct {
	Authorizations []InstructorAuthorization `json:"authorizations"`
	Catalog        []CourseInstance          `json:"catalog"`
}
