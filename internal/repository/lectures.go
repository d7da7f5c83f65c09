package repository

import (
	"context"

	"luct/reporting/internal/model"
)

const lectureSelect = `
	SELECT l.id, l.course_id, l.lecturer_id, l.week, l.lecture_date, l.venue, l.topic,
	       l.students_present, l.total_students, l.status, l.created_at, l.updated_at,
	       c.name, c.code
	FROM lectures l
	JOIN courses c ON c.id = l.course_id`

func scanLecture(row scanner) (model.Lecture, error) {
	var lecture model.Lecture
	err := row.Scan(
		&lecture.ID,
		&lecture.CourseID,
		&lecture.LecturerID,
		&lecture.Week,
		&lecture.LectureDate,
		&lecture.Venue,
		&lecture.Topic,
		&lecture.StudentsPresent,
		&lecture.TotalStudents,
		&lecture.Status,
		&lecture.CreatedAt,
		&lecture.UpdatedAt,
		&lecture.CourseName,
		&lecture.CourseCode,
	)
	return lecture, mapError(err)
}

type LectureFilter struct {
	CourseID   *int64
	LecturerID *int64
}

func (s *Store) ListLectures(ctx context.Context, filter LectureFilter) ([]model.Lecture, error) {
	var w where
	if filter.CourseID != nil {
		w.add("l.course_id = ?", *filter.CourseID)
	}
	if filter.LecturerID != nil {
		w.add("l.lecturer_id = ?", *filter.LecturerID)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, lectureSelect+w.sql()+` ORDER BY l.week, l.id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lectures := make([]model.Lecture, 0)
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		lectures = append(lectures, lecture)
	}
	return lectures, rows.Err()
}

func (s *Store) GetLecture(ctx context.Context, id int64) (model.Lecture, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return scanLecture(s.pool.QueryRow(ctx, lectureSelect+` WHERE l.id = $1`, id))
}

func (s *Store) CreateLecture(ctx context.Context, lecture model.Lecture) (model.Lecture, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO lectures (course_id, lecturer_id, week, lecture_date, venue, topic, students_present, total_students, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, lecture.CourseID, lecture.LecturerID, lecture.Week, lecture.LectureDate, lecture.Venue,
		lecture.Topic, lecture.StudentsPresent, lecture.TotalStudents, lecture.Status).Scan(&id)
	if err != nil {
		return model.Lecture{}, mapError(err)
	}
	return scanLecture(s.pool.QueryRow(ctx, lectureSelect+` WHERE l.id = $1`, id))
}

func (s *Store) UpdateLecture(ctx context.Context, lecture model.Lecture) (model.Lecture, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
		UPDATE lectures
		SET course_id = $2, lecturer_id = $3, week = $4, lecture_date = $5, venue = $6, topic = $7,
		    students_present = $8, total_students = $9, status = $10, updated_at = now()
		WHERE id = $1
	`, lecture.ID, lecture.CourseID, lecture.LecturerID, lecture.Week, lecture.LectureDate, lecture.Venue,
		lecture.Topic, lecture.StudentsPresent, lecture.TotalStudents, lecture.Status)
	if err != nil {
		return model.Lecture{}, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Lecture{}, ErrNotFound
	}
	return scanLecture(s.pool.QueryRow(ctx, lectureSelect+` WHERE l.id = $1`, lecture.ID))
}

func (s *Store) DeleteLecture(ctx context.Context, id int64) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
