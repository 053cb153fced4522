// Package remote implements the REST boundary to the school API. The cache
// and sync layers only ever see the Client interface; this file is the JSON
// over HTTP implementation of it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"edupocket/internal/client/models"
	"edupocket/internal/common"
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewHTTPClient returns a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetAccessToken installs the bearer token attached to every request. The
// host application owns the token lifecycle.
func (c *HTTPClient) SetAccessToken(token string) {
	c.token = token
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.getOnce(ctx, "/ping", nil, nil)
}

func (c *HTTPClient) FetchClasses(ctx context.Context, f models.ClassFilter) ([]models.Class, error) {
	q := url.Values{}
	setIf(q, "school_id", f.SchoolId)
	setIf(q, "term_id", f.TermId)
	setIf(q, "teacher_id", f.TeacherId)
	setIf(q, "grade", f.Grade)

	var result []models.Class
	if err := c.get(ctx, "/classes", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchClassesVersion(ctx context.Context, f models.ClassFilter) (string, error) {
	q := url.Values{}
	setIf(q, "school_id", f.SchoolId)
	setIf(q, "term_id", f.TermId)
	return c.version(ctx, "/classes/version", q)
}

func (c *HTTPClient) FetchStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	q := url.Values{}
	setIf(q, "class_id", f.ClassId)
	setIf(q, "school_id", f.SchoolId)

	var result []models.Student
	if err := c.get(ctx, "/students", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchParents(ctx context.Context, f models.ParentFilter) ([]models.Parent, error) {
	q := url.Values{}
	setIf(q, "student_id", f.StudentId)
	setIf(q, "school_id", f.SchoolId)

	var result []models.Parent
	if err := c.get(ctx, "/parents", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchWallPosts(ctx context.Context, f models.WallPostFilter) ([]models.WallPost, error) {
	q := url.Values{}
	setIf(q, "school_id", f.SchoolId)
	setIf(q, "class_id", f.ClassId)
	setIf(q, "author_id", f.AuthorId)

	var result []models.WallPost
	if err := c.get(ctx, "/wallposts", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchWallPostsVersion(ctx context.Context, f models.WallPostFilter) (string, error) {
	q := url.Values{}
	setIf(q, "school_id", f.SchoolId)
	setIf(q, "class_id", f.ClassId)
	return c.version(ctx, "/wallposts/version", q)
}

func (c *HTTPClient) CreateWallPost(ctx context.Context, p models.WallPost) (*models.WallPost, error) {
	created := &models.WallPost{}
	if err := c.post(ctx, "/wallposts", p, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *HTTPClient) FetchActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	q := url.Values{}
	setIf(q, "class_id", f.ClassId)
	setIf(q, "term_id", f.TermId)
	setIf(q, "student_id", f.StudentId)
	setIf(q, "date", f.Date)

	var result []models.Activity
	if err := c.get(ctx, "/activities", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) CreateActivity(ctx context.Context, a models.Activity) (*models.Activity, error) {
	created := &models.Activity{}
	if err := c.post(ctx, "/activities", a, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *HTTPClient) FetchActivityGroups(ctx context.Context, classID, termID string) (json.RawMessage, error) {
	q := url.Values{}
	setIf(q, "class_id", classID)
	setIf(q, "term_id", termID)

	var result json.RawMessage
	if err := c.get(ctx, "/activities/groups", q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchDashboard(ctx context.Context, ownerID string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.get(ctx, "/dashboard/"+url.PathEscape(ownerID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchSchedule(ctx context.Context, ownerID, termID string) (json.RawMessage, error) {
	q := url.Values{}
	setIf(q, "term_id", termID)

	var result json.RawMessage
	if err := c.get(ctx, "/schedules/"+url.PathEscape(ownerID), q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	survey := &models.Survey{}
	if err := c.get(ctx, "/surveys/"+url.PathEscape(surveyID), nil, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (c *HTTPClient) CreateSurveyQuestion(ctx context.Context, surveyID, sectionID string, q models.SurveyQuestion) (*models.SurveyQuestion, error) {
	path := fmt.Sprintf("/surveys/%s/sections/%s/questions", url.PathEscape(surveyID), url.PathEscape(sectionID))
	created := &models.SurveyQuestion{}
	if err := c.post(ctx, path, q, created); err != nil {
		return nil, err
	}
	return created, nil
}

type versionResponse struct {
	LastUpdated string `json:"last_updated"`
}

func (c *HTTPClient) version(ctx context.Context, path string, q url.Values) (string, error) {
	var v versionResponse
	if err := c.get(ctx, path, q, &v); err != nil {
		return "", err
	}
	return v.LastUpdated, nil
}

// get issues a GET with a short constant backoff on transient failures.
// GETs are idempotent, so retrying is safe; writes go through post, which
// never retries.
func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, dst any) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.getOnce(ctx, path, q, dst)
	})
}

func (c *HTTPClient) getOnce(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		// Connection-level failure: worth one more attempt.
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	return c.decode(resp, dst)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, dst any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, dst)
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+c.token)
	}
}

func (c *HTTPClient) decode(resp *http.Response, dst any) error {
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if dst == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrorUnauthorized

	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", common.ErrorValidation, readBody(resp.Body))

	case resp.StatusCode >= http.StatusInternalServerError:
		return retry.RetryableError(fmt.Errorf("%w: %s", common.ErrorUnavailable, resp.Status))

	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 1024))
	return strings.TrimSpace(string(b))
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
