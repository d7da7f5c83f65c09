package repository

import (
	"context"

	"luct/reporting/internal/model"
)

const ratingColumns = `id, lecture_id, student_id, rating, comment, created_at`

func scanRating(row scanner) (model.Rating, error) {
	var rating model.Rating
	err := row.Scan(
		&rating.ID,
		&rating.LectureID,
		&rating.StudentID,
		&rating.Rating,
		&rating.Comment,
		&rating.CreatedAt,
	)
	return rating, mapError(err)
}

func (s *Store) CreateRating(ctx context.Context, rating model.Rating) (model.Rating, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO ratings (lecture_id, student_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING `+ratingColumns,
		rating.LectureID, rating.StudentID, rating.Rating, rating.Comment)
	return scanRating(row)
}

func (s *Store) ListRatingsByLecture(ctx context.Context, lectureID int64) ([]model.Rating, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE lecture_id = $1 ORDER BY created_at, id`, lectureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]model.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// RatingSummary reports an average of 0 for lectures nobody has rated.
func (s *Store) RatingSummary(ctx context.Context, lectureID int64) (model.RatingSummary, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	summary := model.RatingSummary{LectureID: lectureID}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, count(*)
		FROM ratings
		WHERE lecture_id = $1
	`, lectureID).Scan(&summary.Average, &summary.Count)
	return summary, err
}
