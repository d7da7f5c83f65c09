package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"luct/reporting/internal/auth"
	"luct/reporting/internal/cache"
	"luct/reporting/internal/config"
	"luct/reporting/internal/identity"
	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

// Store is the persistence surface used by the resource handlers.
type Store interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id int64) (model.Course, error)
	CreateCourse(ctx context.Context, course model.Course) (model.Course, error)
	UpdateCourse(ctx context.Context, course model.Course) (model.Course, error)
	DeleteCourse(ctx context.Context, id int64) error

	ListLectures(ctx context.Context, filter repository.LectureFilter) ([]model.Lecture, error)
	GetLecture(ctx context.Context, id int64) (model.Lecture, error)
	CreateLecture(ctx context.Context, lecture model.Lecture) (model.Lecture, error)
	UpdateLecture(ctx context.Context, lecture model.Lecture) (model.Lecture, error)
	DeleteLecture(ctx context.Context, id int64) error

	ListReports(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error)
	GetReport(ctx context.Context, id int64) (model.Report, error)
	CreateReport(ctx context.Context, report model.Report) (model.Report, error)
	UpdateReport(ctx context.Context, report model.Report) (model.Report, error)
	DeleteReport(ctx context.Context, id int64) error
	SetFeedback(ctx context.Context, lectureID int64, feedback string, status model.ReportStatus) ([]model.Report, error)

	CreateRating(ctx context.Context, rating model.Rating) (model.Rating, error)
	ListRatingsByLecture(ctx context.Context, lectureID int64) ([]model.Rating, error)
	RatingSummary(ctx context.Context, lectureID int64) (model.RatingSummary, error)
}

type Server struct {
	cfg      config.Config
	identity *identity.Service
	tokens   *auth.Issuer
	store    Store
	ratings  *cache.RatingCache
	logger   *zap.Logger
}

func NewServer(cfg config.Config, identitySvc *identity.Service, tokens *auth.Issuer, store Store, ratings *cache.RatingCache, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		identity: identitySvc,
		tokens:   tokens,
		store:    store,
		ratings:  ratings,
		logger:   logger.Named("http"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.FrontendOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.With(s.authMiddleware).Get("/auth/me", s.handleMe)

		r.Route("/courses", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListCourses)
			r.Get("/{id}", s.handleGetCourse)
			r.With(s.requireRole(model.RolePL)).Post("/", s.handleCreateCourse)
			r.With(s.requireRole(model.RolePL)).Put("/{id}", s.handleUpdateCourse)
			r.With(s.requireRole(model.RolePL)).Delete("/{id}", s.handleDeleteCourse)
		})

		r.Route("/lectures", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListLectures)
			r.Get("/course/{courseId}", s.handleListLecturesByCourse)
			r.Get("/{id}", s.handleGetLecture)
			r.With(s.requireRole(model.RoleLecturer, model.RolePL)).Post("/", s.handleCreateLecture)
			r.With(s.requireRole(model.RoleLecturer, model.RolePL)).Put("/{id}", s.handleUpdateLecture)
			r.With(s.requireRole(model.RolePL)).Delete("/{id}", s.handleDeleteLecture)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.With(s.requireRole(model.RoleLecturer, model.RolePRL, model.RolePL)).Get("/", s.handleListReports)
			r.With(s.requireRole(model.RoleLecturer, model.RolePRL, model.RolePL)).Get("/{id}", s.handleGetReport)
			r.With(s.requireRole(model.RoleLecturer)).Post("/", s.handleCreateReport)
			r.With(s.requireRole(model.RoleLecturer, model.RolePL)).Put("/{id}", s.handleUpdateReport)
			r.With(s.requireRole(model.RolePL)).Delete("/{id}", s.handleDeleteReport)
			// {id} is the lecture id on this route.
			r.With(s.requireRole(model.RolePRL, model.RolePL)).Put("/{id}/feedback", s.handleReportFeedback)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.With(s.requireRole(model.RoleStudent)).Post("/", s.handleCreateRating)
			r.Get("/lecture/{id}", s.handleListRatings)
			r.Get("/lecture/{id}/average", s.handleRatingAverage)
		})
	})

	return r
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, zap.Error(err), zap.String("request_id", requestIDFromContext(r.Context())))
	writeError(w, http.StatusInternalServerError, "server_error")
}
