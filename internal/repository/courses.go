package repository

import (
	"context"

	"luct/reporting/internal/model"
)

const courseColumns = `id, name, code, faculty, lecturer_id, created_at, updated_at`

func scanCourse(row scanner) (model.Course, error) {
	var course model.Course
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Faculty,
		&course.LecturerID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	return course, mapError(err)
}

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]model.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) GetCourse(ctx context.Context, id int64) (model.Course, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return scanCourse(s.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (s *Store) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO courses (name, code, faculty, lecturer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+courseColumns,
		course.Name, course.Code, course.Faculty, course.LecturerID)
	return scanCourse(row)
}

func (s *Store) UpdateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		UPDATE courses
		SET name = $2, code = $3, faculty = $4, lecturer_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+courseColumns,
		course.ID, course.Name, course.Code, course.Faculty, course.LecturerID)
	return scanCourse(row)
}

func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
