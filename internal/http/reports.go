package http

import (
	"net/http"
	"strings"

	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

type reportRequest struct {
	LectureID       *int64  `json:"lecture_id"`
	Challenges      *string `json:"challenges"`
	Recommendations *string `json:"recommendations"`
	Status          *string `json:"status"`
}

type feedbackRequest struct {
	PRLFeedback string `json:"prl_feedback"`
	Status      string `json:"status"`
}

type reportResponse struct {
	ID              int64              `json:"id"`
	LectureID       int64              `json:"lecture_id"`
	LecturerID      int64              `json:"lecturer_id"`
	Challenges      string             `json:"challenges"`
	Recommendations string             `json:"recommendations"`
	PRLFeedback     *string            `json:"prl_feedback"`
	Status          model.ReportStatus `json:"status"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type feedbackResponse struct {
	Message string           `json:"message"`
	Reports []reportResponse `json:"reports"`
}

func toReportResponse(report model.Report) reportResponse {
	return reportResponse{
		ID:              report.ID,
		LectureID:       report.LectureID,
		LecturerID:      report.LecturerID,
		Challenges:      report.Challenges,
		Recommendations: report.Recommendations,
		PRLFeedback:     report.PRLFeedback,
		Status:          report.Status,
		CreatedAt:       formatTime(report.CreatedAt),
		UpdatedAt:       formatTime(report.UpdatedAt),
	}
}

func toReportResponses(reports []model.Report) []reportResponse {
	resp := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, toReportResponse(report))
	}
	return resp
}

// ownsReport is true for the lecturer who filed report. Program leaders and
// principal lecturers see every report.
func ownsReport(role model.Role, userID int64, report model.Report) bool {
	if role != model.RoleLecturer {
		return true
	}
	return report.LecturerID == userID
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	lectureID, ok := queryID(r, "lecture_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	filter := repository.ReportFilter{LectureID: lectureID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseReportStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		filter.Status = status
	}
	if claims.Role == model.RoleLecturer {
		filter.LecturerID = &claims.UserID
	}

	reports, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, "list reports", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponses(reports))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	claims := claimsFromContext(r.Context())
	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get report", err)
		return
	}
	if !ownsReport(claims.Role, claims.UserID, report) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.LectureID == nil || *req.LectureID <= 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	claims := claimsFromContext(r.Context())

	report := model.Report{
		LectureID:  *req.LectureID,
		LecturerID: claims.UserID,
		Status:     model.ReportPending,
	}
	if req.Challenges != nil {
		report.Challenges = strings.TrimSpace(*req.Challenges)
	}
	if req.Recommendations != nil {
		report.Recommendations = strings.TrimSpace(*req.Recommendations)
	}

	created, err := s.store.CreateReport(r.Context(), report)
	if err != nil {
		s.writeStoreError(w, r, "create report", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportResponse(created))
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	claims := claimsFromContext(r.Context())

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get report", err)
		return
	}
	if !ownsReport(claims.Role, claims.UserID, report) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	// Lecturers cannot move a report onto another lecture.
	if claims.Role == model.RoleLecturer {
		req.LectureID = nil
	}
	if req.LectureID != nil {
		if *req.LectureID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		report.LectureID = *req.LectureID
	}
	if req.Challenges != nil {
		report.Challenges = strings.TrimSpace(*req.Challenges)
	}
	if req.Recommendations != nil {
		report.Recommendations = strings.TrimSpace(*req.Recommendations)
	}
	if req.Status != nil {
		status, ok := model.ParseReportStatus(*req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		report.Status = status
	}

	updated, err := s.store.UpdateReport(r.Context(), report)
	if err != nil {
		s.writeStoreError(w, r, "update report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(updated))
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		s.writeStoreError(w, r, "delete report", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReportFeedback(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	feedback := strings.TrimSpace(req.PRLFeedback)
	if feedback == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	status := model.ReportCompleted
	if req.Status != "" {
		parsed, ok := model.ParseReportStatus(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		status = parsed
	}

	reports, err := s.store.SetFeedback(r.Context(), lectureID, feedback, status)
	if err != nil {
		s.writeStoreError(w, r, "set report feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{
		Message: "Feedback submitted successfully",
		Reports: toReportResponses(reports),
	})
}
