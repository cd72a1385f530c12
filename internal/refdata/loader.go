package refdata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

// Accepted header aliases per logical field, in resolution order. Matching is
// normalized (case and diacritic insensitive), so "Año", "AÑO" and "ano" all
// resolve the year column.
var (
	instructorAliases   = []string{"Instructor", "Nombre"}
	courseListAliases   = []string{"Cursos"}
	courseCodeAliases   = []string{"Nombre corto", "Curso"}
	yearAliases         = []string{"Año", "Anio", "Year"}
	virtualStartAliases = []string{"Teórico Virtual (inicio)"}
	virtualEndAliases   = []string{"Teórico Virtual (fin)"}
	onsiteStartAliases  = []string{"Instancia Presencial (inicio)"}
	onsiteEndAliases    = []string{"Instancia Presencial (fin)"}
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// ExtractYear pulls the first run of exactly four digits out of a free-text
// year field. "2026 (pendiente)" yields 2026; text with no four-digit run
// yields nil, never zero.
func ExtractYear(raw string) *int {
	for _, run := range digitRun.FindAllString(raw, -1) {
		if len(run) != 4 {
			continue
		}
		year, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		return &year
	}
	return nil
}

// LoadAuthorizations normalizes the instructor reference table. Course lists
// may pack several codes into one cell joined by ";" or "/".
func LoadAuthorizations(t Table) ([]models.InstructorAuthorization, error) {
	nameCol, ok := resolveColumn(t.Headers, instructorAliases)
	if !ok {
		return nil, missingColumn("instructor name", t.Headers)
	}
	coursesCol, ok := resolveColumn(t.Headers, courseListAliases)
	if !ok {
		return nil, missingColumn("course list", t.Headers)
	}

	auths := make([]models.InstructorAuthorization, 0, len(t.Rows))
	for _, row := range t.Rows {
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		auths = append(auths, models.InstructorAuthorization{
			InstructorName: name,
			InstructorKey:  NormalizeName(name),
			Courses:        splitCourses(row[coursesCol]),
		})
	}
	return auths, nil
}

// LoadCourseCatalog normalizes the catalog table. Row order is preserved:
// callers display instances in catalog order and re-index by position.
func LoadCourseCatalog(t Table) ([]models.CourseInstance, error) {
	codeCol, ok := resolveColumn(t.Headers, courseCodeAliases)
	if !ok {
		return nil, missingColumn("course code", t.Headers)
	}
	yearCol, ok := resolveColumn(t.Headers, yearAliases)
	if !ok {
		return nil, missingColumn("year", t.Headers)
	}

	virtualStartCol, _ := resolveColumn(t.Headers, virtualStartAliases)
	virtualEndCol, _ := resolveColumn(t.Headers, virtualEndAliases)
	onsiteStartCol, _ := resolveColumn(t.Headers, onsiteStartAliases)
	onsiteEndCol, _ := resolveColumn(t.Headers, onsiteEndAliases)

	catalog := make([]models.CourseInstance, 0, len(t.Rows))
	for _, row := range t.Rows {
		code := strings.TrimSpace(row[codeCol])
		if code == "" {
			continue
		}
		catalog = append(catalog, models.CourseInstance{
			CourseCode:   code,
			Year:         ExtractYear(row[yearCol]),
			VirtualStart: strings.TrimSpace(row[virtualStartCol]),
			VirtualEnd:   strings.TrimSpace(row[virtualEndCol]),
			OnsiteStart:  strings.TrimSpace(row[onsiteStartCol]),
			OnsiteEnd:    strings.TrimSpace(row[onsiteEndCol]),
		})
	}
	return catalog, nil
}

// resolveColumn finds the actual header matching any of the aliases. Aliases
// are tried in order so preferred names win when a table carries several
// candidate columns.
func resolveColumn(headers []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		want := NormalizeName(alias)
		for _, header := range headers {
			if NormalizeName(header) == want {
				return header, true
			}
		}
	}
	return "", false
}

func missingColumn(field string, headers []string) error {
	return appErrors.Clone(appErrors.ErrDataFormat,
		fmt.Sprintf("missing %s column; available columns: %s", field, strings.Join(headers, ", ")))
}

func splitCourses(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '/'
	})

	seen := make(map[string]struct{}, len(parts))
	courses := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		courses = append(courses, code)
	}
	return courses
}
