package http

import (
	"errors"
	"net/http"
	"strings"

	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

type courseRequest struct {
	Name       *string `json:"name"`
	Code       *string `json:"code"`
	Faculty    *string `json:"faculty"`
	LecturerID *int64  `json:"lecturer_id"`
}

type courseResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Faculty    string `json:"faculty"`
	LecturerID *int64 `json:"lecturer_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toCourseResponse(course model.Course) courseResponse {
	return courseResponse{
		ID:         course.ID,
		Name:       course.Name,
		Code:       course.Code,
		Faculty:    course.Faculty,
		LecturerID: course.LecturerID,
		CreatedAt:  formatTime(course.CreatedAt),
		UpdatedAt:  formatTime(course.UpdatedAt),
	}
}

// apply copies the provided fields onto course.
func (req courseRequest) apply(course *model.Course) {
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Faculty != nil {
		course.Faculty = strings.TrimSpace(*req.Faculty)
	}
	if req.LecturerID != nil {
		course.LecturerID = req.LecturerID
	}
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context())
	if err != nil {
		s.serverError(w, r, "list courses", err)
		return
	}
	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, toCourseResponse(course))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	course, err := s.store.GetCourse(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get course", err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(course))
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	var course model.Course
	req.apply(&course)
	if course.Name == "" || course.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	created, err := s.store.CreateCourse(r.Context(), course)
	if err != nil {
		s.writeCourseError(w, r, "create course", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseResponse(created))
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	course, err := s.store.GetCourse(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get course", err)
		return
	}
	req.apply(&course)
	if course.Name == "" || course.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	updated, err := s.store.UpdateCourse(r.Context(), course)
	if err != nil {
		s.writeCourseError(w, r, "update course", err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(updated))
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteCourse(r.Context(), id); err != nil {
		s.writeStoreError(w, r, "delete course", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeCourseError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, repository.ErrDuplicate) {
		writeError(w, http.StatusConflict, "course_code_exists")
		return
	}
	s.writeStoreError(w, r, msg, err)
}

// writeStoreError maps repository sentinels shared by every resource.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, repository.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "invalid_reference")
	default:
		s.serverError(w, r, msg, err)
	}
}
