package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

// memoryStore implements Store and identity.UserStore for handler tests.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]model.User
	courses  map[int64]model.Course
	lectures map[int64]model.Lecture
	reports  map[int64]model.Report
	ratings  map[int64]model.Rating
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]model.User),
		courses:  make(map[int64]model.Course),
		lectures: make(map[int64]model.Lecture),
		reports:  make(map[int64]model.Report),
		ratings:  make(map[int64]model.Rating),
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memoryStore) GetUserByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memoryStore) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return model.User{}, repository.ErrDuplicate
	}
	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	m.users[user.Username] = user
	return user, nil
}

func (m *memoryStore) ListCourses(context.Context) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	courses := make([]model.Course, 0, len(m.courses))
	for _, course := range m.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (m *memoryStore) GetCourse(_ context.Context, id int64) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return model.Course{}, repository.ErrNotFound
	}
	return course, nil
}

func (m *memoryStore) CreateCourse(_ context.Context, course model.Course) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.courses {
		if existing.Code == course.Code {
			return model.Course{}, repository.ErrDuplicate
		}
	}
	course.ID = m.id()
	m.courses[course.ID] = course
	return course, nil
}

func (m *memoryStore) UpdateCourse(_ context.Context, course model.Course) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return model.Course{}, repository.ErrNotFound
	}
	for _, existing := range m.courses {
		if existing.Code == course.Code && existing.ID != course.ID {
			return model.Course{}, repository.ErrDuplicate
		}
	}
	m.courses[course.ID] = course
	return course, nil
}

func (m *memoryStore) DeleteCourse(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *memoryStore) ListLectures(_ context.Context, filter repository.LectureFilter) ([]model.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lectures := make([]model.Lecture, 0)
	for _, lecture := range m.lectures {
		if filter.CourseID != nil && lecture.CourseID != *filter.CourseID {
			continue
		}
		if filter.LecturerID != nil && (lecture.LecturerID == nil || *lecture.LecturerID != *filter.LecturerID) {
			continue
		}
		lectures = append(lectures, lecture)
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].ID < lectures[j].ID })
	return lectures, nil
}

func (m *memoryStore) GetLecture(_ context.Context, id int64) (model.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lecture, ok := m.lectures[id]
	if !ok {
		return model.Lecture{}, repository.ErrNotFound
	}
	return lecture, nil
}

func (m *memoryStore) CreateLecture(_ context.Context, lecture model.Lecture) (model.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[lecture.CourseID]
	if !ok {
		return model.Lecture{}, repository.ErrInvalidReference
	}
	lecture.ID = m.id()
	lecture.CourseName = course.Name
	lecture.CourseCode = course.Code
	m.lectures[lecture.ID] = lecture
	return lecture, nil
}

func (m *memoryStore) UpdateLecture(_ context.Context, lecture model.Lecture) (model.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lectures[lecture.ID]; !ok {
		return model.Lecture{}, repository.ErrNotFound
	}
	if _, ok := m.courses[lecture.CourseID]; !ok {
		return model.Lecture{}, repository.ErrInvalidReference
	}
	m.lectures[lecture.ID] = lecture
	return lecture, nil
}

func (m *memoryStore) DeleteLecture(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lectures[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.lectures, id)
	return nil
}

func (m *memoryStore) ListReports(_ context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reports := make([]model.Report, 0)
	for _, report := range m.reports {
		if filter.LecturerID != nil && report.LecturerID != *filter.LecturerID {
			continue
		}
		if filter.LectureID != nil && report.LectureID != *filter.LectureID {
			continue
		}
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (m *memoryStore) GetReport(_ context.Context, id int64) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return model.Report{}, repository.ErrNotFound
	}
	return report, nil
}

func (m *memoryStore) CreateReport(_ context.Context, report model.Report) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lectures[report.LectureID]; !ok {
		return model.Report{}, repository.ErrInvalidReference
	}
	report.ID = m.id()
	m.reports[report.ID] = report
	return report, nil
}

func (m *memoryStore) UpdateReport(_ context.Context, report model.Report) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[report.ID]; !ok {
		return model.Report{}, repository.ErrNotFound
	}
	m.reports[report.ID] = report
	return report, nil
}

func (m *memoryStore) DeleteReport(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

func (m *memoryStore) SetFeedback(_ context.Context, lectureID int64, feedback string, status model.ReportStatus) ([]model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := make([]model.Report, 0)
	for id, report := range m.reports {
		if report.LectureID != lectureID {
			continue
		}
		text := feedback
		report.PRLFeedback = &text
		report.Status = status
		m.reports[id] = report
		updated = append(updated, report)
	}
	if len(updated) == 0 {
		return nil, repository.ErrNotFound
	}
	return updated, nil
}

func (m *memoryStore) CreateRating(_ context.Context, rating model.Rating) (model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lectures[rating.LectureID]; !ok {
		return model.Rating{}, repository.ErrInvalidReference
	}
	rating.ID = m.id()
	m.ratings[rating.ID] = rating
	return rating, nil
}

func (m *memoryStore) ListRatingsByLecture(_ context.Context, lectureID int64) ([]model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ratings := make([]model.Rating, 0)
	for _, rating := range m.ratings {
		if rating.LectureID == lectureID {
			ratings = append(ratings, rating)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (m *memoryStore) RatingSummary(_ context.Context, lectureID int64) (model.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := model.RatingSummary{LectureID: lectureID}
	var total int64
	for _, rating := range m.ratings {
		if rating.LectureID == lectureID {
			total += int64(rating.Rating)
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}
