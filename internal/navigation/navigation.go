// Package navigation holds the static role to section table used by clients
// to decide which areas a logged-in user may open. The server enforces
// authorization on its own; this table only shapes the client.
package navigation

import (
	"luct/reporting/internal/model"
	"luct/reporting/internal/session"
)

type Section string

const (
	Courses    Section = "courses"
	Lectures   Section = "lectures"
	Reports    Section = "reports"
	Ratings    Section = "ratings"
	Monitoring Section = "monitoring"
	Feedback   Section = "feedback"
	Classes    Section = "classes"
)

var sectionsByRole = map[model.Role][]Section{
	model.RoleStudent:  {Courses, Ratings},
	model.RoleLecturer: {Lectures, Reports},
	model.RolePRL:      {Courses, Reports, Monitoring, Feedback},
	model.RolePL:       {Courses, Lectures, Monitoring, Classes, Ratings},
}

// Sections returns the sections open to role, or nil for unknown roles.
func Sections(role model.Role) []Section {
	sections := sectionsByRole[role]
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func CanEnter(sess session.Session, section Section) bool {
	if !sess.Valid() {
		return false
	}
	for _, allowed := range sectionsByRole[sess.Role] {
		if allowed == section {
			return true
		}
	}
	return false
}
