package repository

import (
	"context"

	"luct/reporting/internal/model"
)

const reportColumns = `id, lecture_id, lecturer_id, challenges, recommendations, prl_feedback, status, created_at, updated_at`

func scanReport(row scanner) (model.Report, error) {
	var report model.Report
	err := row.Scan(
		&report.ID,
		&report.LectureID,
		&report.LecturerID,
		&report.Challenges,
		&report.Recommendations,
		&report.PRLFeedback,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	return report, mapError(err)
}

type ReportFilter struct {
	LecturerID *int64
	LectureID  *int64
	Status     model.ReportStatus
}

func (s *Store) ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	var w where
	if filter.LecturerID != nil {
		w.add("lecturer_id = ?", *filter.LecturerID)
	}
	if filter.LectureID != nil {
		w.add("lecture_id = ?", *filter.LectureID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `SELECT `+reportColumns+` FROM reports`+w.sql()+` ORDER BY created_at DESC, id DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func collectReports(rows interface {
	Next() bool
	Err() error
	scanner
}) ([]model.Report, error) {
	reports := make([]model.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Store) GetReport(ctx context.Context, id int64) (model.Report, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return scanReport(s.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
}

func (s *Store) CreateReport(ctx context.Context, report model.Report) (model.Report, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO reports (lecture_id, lecturer_id, challenges, recommendations, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reportColumns,
		report.LectureID, report.LecturerID, report.Challenges, report.Recommendations, report.Status)
	return scanReport(row)
}

func (s *Store) UpdateReport(ctx context.Context, report model.Report) (model.Report, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		UPDATE reports
		SET lecture_id = $2, challenges = $3, recommendations = $4, prl_feedback = $5, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns,
		report.ID, report.LectureID, report.Challenges, report.Recommendations, report.PRLFeedback, report.Status)
	return scanReport(row)
}

func (s *Store) DeleteReport(ctx context.Context, id int64) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeedback records principal-lecturer feedback on every report filed for
// lectureID and returns the updated rows.
func (s *Store) SetFeedback(ctx context.Context, lectureID int64, feedback string, status model.ReportStatus) ([]model.Report, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
		UPDATE reports
		SET prl_feedback = $2, status = $3, updated_at = now()
		WHERE lecture_id = $1
		RETURNING `+reportColumns,
		lectureID, feedback, status)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	reports, err := collectReports(rows)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return reports, nil
}

func (s *Store) CountPendingReports(ctx context.Context) (int64, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM reports WHERE status = $1`, model.ReportPending).Scan(&count)
	return count, err
}
