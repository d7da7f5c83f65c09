package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadSeedUsers(t *testing.T) {
	path := writeSeed(t, `
users:
  - username: student1
    password: password123
    full_name: Thabo Student
    role: student
  - username: prl1
    password: password123
    role: prl
`)
	users, err := LoadSeedUsers(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].FullName != "Thabo Student" || users[1].Role != "prl" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestLoadSeedUsersRejectsUnknownRole(t *testing.T) {
	path := writeSeed(t, `
users:
  - username: root
    password: toor
    role: admin
`)
	if _, err := LoadSeedUsers(path); err == nil {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestLoadSeedUsersRequiresPassword(t *testing.T) {
	path := writeSeed(t, `
users:
  - username: nopass
    role: student
`)
	if _, err := LoadSeedUsers(path); err == nil {
		t.Fatalf("expected missing password to be rejected")
	}
}

func TestLoadSeedUsersDefaultsMissingRole(t *testing.T) {
	path := writeSeed(t, `
users:
  - username: newcomer
    password: password123
  - username: leader
    password: password123
    role: " PL "
`)
	users, err := LoadSeedUsers(path)
	if err != nil {
		t.Fatalf("expected missing role to be accepted, got %v", err)
	}
	if users[0].Role != "student" {
		t.Fatalf("expected student default, got %q", users[0].Role)
	}
	if users[1].Role != "pl" {
		t.Fatalf("expected normalized pl, got %q", users[1].Role)
	}
}
