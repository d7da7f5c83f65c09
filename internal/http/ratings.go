package http

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"luct/reporting/internal/metrics"
	"luct/reporting/internal/model"
)

type ratingRequest struct {
	LectureID int64  `json:"lecture_id"`
	Rating    int32  `json:"rating"`
	Comment   string `json:"comment"`
}

type ratingResponse struct {
	ID        int64  `json:"id"`
	LectureID int64  `json:"lecture_id"`
	StudentID int64  `json:"student_id"`
	Rating    int32  `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func toRatingResponse(rating model.Rating) ratingResponse {
	return ratingResponse{
		ID:        rating.ID,
		LectureID: rating.LectureID,
		StudentID: rating.StudentID,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		CreatedAt: formatTime(rating.CreatedAt),
	}
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.LectureID <= 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "invalid_rating")
		return
	}
	claims := claimsFromContext(r.Context())

	created, err := s.store.CreateRating(r.Context(), model.Rating{
		LectureID: req.LectureID,
		StudentID: claims.UserID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if err != nil {
		s.writeStoreError(w, r, "create rating", err)
		return
	}
	if err := s.ratings.Invalidate(r.Context(), req.LectureID); err != nil {
		s.logger.Warn("rating cache invalidate failed", zap.Error(err), zap.Int64("lecture_id", req.LectureID))
	}
	writeJSON(w, http.StatusCreated, toRatingResponse(created))
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	ratings, err := s.store.ListRatingsByLecture(r.Context(), lectureID)
	if err != nil {
		s.serverError(w, r, "list ratings", err)
		return
	}
	resp := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		resp = append(resp, toRatingResponse(rating))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRatingAverage(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if s.ratings.Enabled() {
		summary, hit, err := s.ratings.Get(r.Context(), lectureID)
		if err != nil {
			s.logger.Warn("rating cache read failed", zap.Error(err), zap.Int64("lecture_id", lectureID))
		}
		metrics.RecordCacheLookup(hit)
		if hit {
			writeJSON(w, http.StatusOK, summary)
			return
		}
	}

	summary, err := s.store.RatingSummary(r.Context(), lectureID)
	if err != nil {
		s.serverError(w, r, "rating summary", err)
		return
	}
	if err := s.ratings.Set(r.Context(), summary); err != nil {
		s.logger.Warn("rating cache write failed", zap.Error(err), zap.Int64("lecture_id", lectureID))
	}
	writeJSON(w, http.StatusOK, summary)
}
