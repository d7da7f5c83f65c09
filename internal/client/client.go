// Package client is a small JSON client for the reporting REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"luct/reporting/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// APIError carries the error envelope returned by the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type AuthResult struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	Token    string     `json:"token"`
	Message  string     `json:"message"`
}

type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Faculty    string `json:"faculty"`
	LecturerID *int64 `json:"lecturer_id"`
}

type Lecture struct {
	ID              int64   `json:"id"`
	CourseID        int64   `json:"course_id"`
	CourseCode      string  `json:"course_code"`
	CourseName      string  `json:"course_name"`
	LecturerID      *int64  `json:"lecturer_id"`
	Week            int32   `json:"week"`
	LectureDate     *string `json:"lecture_date"`
	Venue           string  `json:"venue"`
	Topic           string  `json:"topic"`
	StudentsPresent int32   `json:"students_present"`
	TotalStudents   int32   `json:"total_students"`
	Status          string  `json:"status"`
}

type Report struct {
	ID              int64              `json:"id"`
	LectureID       int64              `json:"lecture_id"`
	LecturerID      int64              `json:"lecturer_id"`
	Challenges      string             `json:"challenges"`
	Recommendations string             `json:"recommendations"`
	PRLFeedback     *string            `json:"prl_feedback"`
	Status          model.ReportStatus `json:"status"`
}

type Rating struct {
	ID        int64  `json:"id"`
	LectureID int64  `json:"lecture_id"`
	StudentID int64  `json:"student_id"`
	Rating    int32  `json:"rating"`
	Comment   string `json:"comment"`
}

func (c *Client) Register(ctx context.Context, username, password, fullName, role string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  username,
		"password":  password,
		"full_name": fullName,
		"role":      role,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out)
	return out, err
}

func (c *Client) ListLectures(ctx context.Context, courseID int64, mine bool) ([]Lecture, error) {
	query := url.Values{}
	if courseID > 0 {
		query.Set("course_id", strconv.FormatInt(courseID, 10))
	}
	if mine {
		query.Set("mine", "true")
	}
	path := "/api/lectures"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []Lecture
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ListReports(ctx context.Context, status string) ([]Report, error) {
	path := "/api/reports"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var out []Report
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) SubmitFeedback(ctx context.Context, lectureID int64, feedback, status string) ([]Report, error) {
	body := map[string]string{"prl_feedback": feedback}
	if status != "" {
		body["status"] = status
	}
	var out struct {
		Reports []Report `json:"reports"`
	}
	err := c.do(ctx, http.MethodPut, "/api/reports/"+strconv.FormatInt(lectureID, 10)+"/feedback", body, &out)
	return out.Reports, err
}

func (c *Client) SubmitRating(ctx context.Context, lectureID int64, rating int32, comment string) (Rating, error) {
	var out Rating
	err := c.do(ctx, http.MethodPost, "/api/ratings", map[string]interface{}{
		"lecture_id": lectureID,
		"rating":     rating,
		"comment":    comment,
	}, &out)
	return out, err
}

func (c *Client) RatingAverage(ctx context.Context, lectureID int64) (model.RatingSummary, error) {
	var out model.RatingSummary
	err := c.do(ctx, http.MethodGet, "/api/ratings/lecture/"+strconv.FormatInt(lectureID, 10)+"/average", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
