package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RolePRL      Role = "prl"
	RolePL       Role = "pl"
)

// ParseRole reports whether value names one of the four known roles.
func ParseRole(value string) (Role, bool) {
	switch role := Role(strings.TrimSpace(strings.ToLower(value))); role {
	case RoleStudent, RoleLecturer, RolePRL, RolePL:
		return role, true
	default:
		return "", false
	}
}

// RoleOrDefault falls back to student for absent or unrecognized roles.
func RoleOrDefault(value string) Role {
	if role, ok := ParseRole(value); ok {
		return role
	}
	return RoleStudent
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Course struct {
	ID         int64
	Name       string
	Code       string
	Faculty    string
	LecturerID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Lecture struct {
	ID              int64
	CourseID        int64
	LecturerID      *int64
	Week            int32
	LectureDate     *time.Time
	Venue           string
	Topic           string
	StudentsPresent int32
	TotalStudents   int32
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined from courses on reads.
	CourseName string
	CourseCode string
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportCompleted ReportStatus = "completed"
)

func ParseReportStatus(value string) (ReportStatus, bool) {
	switch status := ReportStatus(strings.TrimSpace(strings.ToLower(value))); status {
	case ReportPending, ReportCompleted:
		return status, true
	default:
		return "", false
	}
}

type Report struct {
	ID              int64
	LectureID       int64
	LecturerID      int64
	Challenges      string
	Recommendations string
	PRLFeedback     *string
	Status          ReportStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Rating struct {
	ID        int64
	LectureID int64
	StudentID int64
	Rating    int32
	Comment   string
	CreatedAt time.Time
}

type RatingSummary struct {
	LectureID int64   `json:"lecture_id"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}
