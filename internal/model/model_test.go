package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"student":  RoleStudent,
		"Lecturer": RoleLecturer,
		" prl ":    RolePRL,
		"PL":       RolePL,
	}
	for input, expect := range cases {
		role, ok := ParseRole(input)
		if !ok || role != expect {
			t.Fatalf("expected %s for %q, got %s (ok=%v)", expect, input, role, ok)
		}
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatalf("expected admin to be rejected")
	}
}

func TestRoleOrDefault(t *testing.T) {
	if role := RoleOrDefault(""); role != RoleStudent {
		t.Fatalf("expected student for empty role, got %s", role)
	}
	if role := RoleOrDefault("dean"); role != RoleStudent {
		t.Fatalf("expected student for unknown role, got %s", role)
	}
	if role := RoleOrDefault("pl"); role != RolePL {
		t.Fatalf("expected pl, got %s", role)
	}
}

func TestParseReportStatus(t *testing.T) {
	if status, ok := ParseReportStatus("Completed"); !ok || status != ReportCompleted {
		t.Fatalf("expected completed, got %s", status)
	}
	if _, ok := ParseReportStatus("archived"); ok {
		t.Fatalf("expected archived to be rejected")
	}
}
