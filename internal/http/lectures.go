package http

import (
	"net/http"
	"strings"
	"time"

	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

const dateLayout = "2006-01-02"

type lectureRequest struct {
	CourseID        *int64  `json:"course_id"`
	LecturerID      *int64  `json:"lecturer_id"`
	Week            *int32  `json:"week"`
	LectureDate     *string `json:"lecture_date"`
	Venue           *string `json:"venue"`
	Topic           *string `json:"topic"`
	StudentsPresent *int32  `json:"students_present"`
	TotalStudents   *int32  `json:"total_students"`
	Status          *string `json:"status"`
}

type lectureResponse struct {
	ID              int64   `json:"id"`
	CourseID        int64   `json:"course_id"`
	CourseName      string  `json:"course_name"`
	CourseCode      string  `json:"course_code"`
	LecturerID      *int64  `json:"lecturer_id"`
	Week            int32   `json:"week"`
	LectureDate     *string `json:"lecture_date"`
	Venue           string  `json:"venue"`
	Topic           string  `json:"topic"`
	StudentsPresent int32   `json:"students_present"`
	TotalStudents   int32   `json:"total_students"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toLectureResponse(lecture model.Lecture) lectureResponse {
	resp := lectureResponse{
		ID:              lecture.ID,
		CourseID:        lecture.CourseID,
		CourseName:      lecture.CourseName,
		CourseCode:      lecture.CourseCode,
		LecturerID:      lecture.LecturerID,
		Week:            lecture.Week,
		Venue:           lecture.Venue,
		Topic:           lecture.Topic,
		StudentsPresent: lecture.StudentsPresent,
		TotalStudents:   lecture.TotalStudents,
		Status:          lecture.Status,
		CreatedAt:       formatTime(lecture.CreatedAt),
		UpdatedAt:       formatTime(lecture.UpdatedAt),
	}
	if lecture.LectureDate != nil {
		date := lecture.LectureDate.Format(dateLayout)
		resp.LectureDate = &date
	}
	return resp
}

// apply copies the provided fields onto lecture and returns an error code
// when a value is out of range.
func (req lectureRequest) apply(lecture *model.Lecture) string {
	if req.CourseID != nil {
		lecture.CourseID = *req.CourseID
	}
	if req.LecturerID != nil {
		lecture.LecturerID = req.LecturerID
	}
	if req.Week != nil {
		lecture.Week = *req.Week
	}
	if req.LectureDate != nil {
		if raw := strings.TrimSpace(*req.LectureDate); raw == "" {
			lecture.LectureDate = nil
		} else {
			date, err := time.Parse(dateLayout, raw)
			if err != nil {
				return "invalid_request"
			}
			lecture.LectureDate = &date
		}
	}
	if req.Venue != nil {
		lecture.Venue = strings.TrimSpace(*req.Venue)
	}
	if req.Topic != nil {
		lecture.Topic = strings.TrimSpace(*req.Topic)
	}
	if req.StudentsPresent != nil {
		lecture.StudentsPresent = *req.StudentsPresent
	}
	if req.TotalStudents != nil {
		lecture.TotalStudents = *req.TotalStudents
	}
	if req.Status != nil {
		lecture.Status = strings.TrimSpace(*req.Status)
	}

	if lecture.CourseID <= 0 || lecture.Topic == "" {
		return "missing_fields"
	}
	if lecture.Week < 0 || lecture.StudentsPresent < 0 || lecture.TotalStudents < 0 {
		return "invalid_request"
	}
	if lecture.StudentsPresent > lecture.TotalStudents {
		return "invalid_request"
	}
	if lecture.Status == "" {
		lecture.Status = "pending"
	}
	return ""
}

func (s *Server) handleListLectures(w http.ResponseWriter, r *http.Request) {
	courseID, ok := queryID(r, "course_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	filter := repository.LectureFilter{CourseID: courseID}
	if r.URL.Query().Get("mine") == "true" {
		claims := claimsFromContext(r.Context())
		filter.LecturerID = &claims.UserID
	}
	s.writeLectures(w, r, filter)
}

func (s *Server) handleListLecturesByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "courseId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	s.writeLectures(w, r, repository.LectureFilter{CourseID: &courseID})
}

func (s *Server) writeLectures(w http.ResponseWriter, r *http.Request, filter repository.LectureFilter) {
	lectures, err := s.store.ListLectures(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, "list lectures", err)
		return
	}
	resp := make([]lectureResponse, 0, len(lectures))
	for _, lecture := range lectures {
		resp = append(resp, toLectureResponse(lecture))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLecture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	lecture, err := s.store.GetLecture(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get lecture", err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureResponse(lecture))
}

func (s *Server) handleCreateLecture(w http.ResponseWriter, r *http.Request) {
	var req lectureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	claims := claimsFromContext(r.Context())

	var lecture model.Lecture
	if code := req.apply(&lecture); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}
	if claims.Role == model.RoleLecturer {
		lecture.LecturerID = &claims.UserID
	}

	created, err := s.store.CreateLecture(r.Context(), lecture)
	if err != nil {
		s.writeStoreError(w, r, "create lecture", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLectureResponse(created))
}

func (s *Server) handleUpdateLecture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req lectureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	claims := claimsFromContext(r.Context())

	lecture, err := s.store.GetLecture(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get lecture", err)
		return
	}
	if claims.Role == model.RoleLecturer {
		if lecture.LecturerID == nil || *lecture.LecturerID != claims.UserID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		req.LecturerID = nil
	}
	if code := req.apply(&lecture); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	updated, err := s.store.UpdateLecture(r.Context(), lecture)
	if err != nil {
		s.writeStoreError(w, r, "update lecture", err)
		return
	}
	writeJSON(w, http.StatusOK, toLectureResponse(updated))
}

func (s *Server) handleDeleteLecture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteLecture(r.Context(), id); err != nil {
		s.writeStoreError(w, r, "delete lecture", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
