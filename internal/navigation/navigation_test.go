package navigation

import (
	"testing"

	"luct/reporting/internal/model"
	"luct/reporting/internal/session"
)

func TestSections(t *testing.T) {
	cases := map[model.Role][]Section{
		model.RoleStudent:  {Courses, Ratings},
		model.RoleLecturer: {Lectures, Reports},
		model.RolePRL:      {Courses, Reports, Monitoring, Feedback},
		model.RolePL:       {Courses, Lectures, Monitoring, Classes, Ratings},
	}
	for role, expect := range cases {
		got := Sections(role)
		if len(got) != len(expect) {
			t.Fatalf("%s: expected %v, got %v", role, expect, got)
		}
		for i := range expect {
			if got[i] != expect[i] {
				t.Fatalf("%s: expected %v, got %v", role, expect, got)
			}
		}
	}
	if got := Sections("dean"); len(got) != 0 {
		t.Fatalf("expected no sections for unknown role, got %v", got)
	}
}

func TestSectionsReturnsCopy(t *testing.T) {
	got := Sections(model.RoleStudent)
	got[0] = Classes
	if Sections(model.RoleStudent)[0] != Courses {
		t.Fatalf("expected table to be unaffected by caller mutation")
	}
}

func TestCanEnter(t *testing.T) {
	student := session.Session{ID: 1, Username: "s", Token: "tok", Role: model.RoleStudent}
	if !CanEnter(student, Ratings) {
		t.Fatalf("expected student to enter ratings")
	}
	if CanEnter(student, Reports) {
		t.Fatalf("expected student to be kept out of reports")
	}

	loggedOut := session.Session{Username: "s", Role: model.RolePL}
	if CanEnter(loggedOut, Courses) {
		t.Fatalf("expected session without token to be rejected")
	}
}
