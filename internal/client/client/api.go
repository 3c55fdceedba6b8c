package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
)

// API is the backend contract used by the identity provider, the publish
// workflow and the REPL.
type API interface {
	CreateUser(ctx context.Context, seed string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListRecordings(ctx context.Context, q ListQuery) ([]*models.EnrichedRecording, error)
	GetRecording(ctx context.Context, id int64, viewerID string) (*models.EnrichedRecording, error)
	RandomRecording(ctx context.Context, viewerID string) (*models.EnrichedRecording, error)
	CreateRecording(ctx context.Context, in models.NewRecording) (*models.Recording, error)
	ToggleLike(ctx context.Context, recordingID int64, userID string) (*models.LikeResult, error)
	RequestUpload(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error)
}

// ListQuery filters and orders a recordings listing. Zero values mean all
// moods, latest first, no viewer.
type ListQuery struct {
	Mood     string
	Sort     string
	ViewerID string
}

// HTTPClient implements API over the REST endpoints.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: u, http: hc}, nil
}

// ResolveURL turns a server-relative location such as /objects/... into an
// absolute URL. Absolute locations are returned unchanged.
func (c *HTTPClient) ResolveURL(location string) string {
	ref, err := url.Parse(location)
	if err != nil || ref.IsAbs() {
		return location
	}
	return c.baseURL.ResolveReference(ref).String()
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// mapStatus converts a non-2xx answer into a sentinel-backed error.
func mapStatus(code int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	if eb.Message == "" {
		eb.Message = http.StatusText(code)
	}

	switch {
	case code == http.StatusBadRequest:
		return common.NewValidationError(eb.Field, eb.Message)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, eb.Message)
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, eb.Message)
	default:
		return fmt.Errorf("%w: %d %s", common.ErrorInternal, code, eb.Message)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrorInternal, err)
	}
	return nil
}

func viewerQuery(viewerID string) url.Values {
	if viewerID == "" {
		return nil
	}
	return url.Values{"userId": {viewerID}}
}

func (c *HTTPClient) CreateUser(ctx context.Context, seed string) (*models.User, error) {
	var u models.User
	in := map[string]string{}
	if seed != "" {
		in["avatarSeed"] = seed
	}
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListRecordings(ctx context.Context, q ListQuery) ([]*models.EnrichedRecording, error) {
	query := url.Values{}
	if q.Mood != "" {
		query.Set("mood", q.Mood)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if q.ViewerID != "" {
		query.Set("userId", q.ViewerID)
	}

	var out []*models.EnrichedRecording
	if err := c.do(ctx, http.MethodGet, "/api/recordings", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetRecording(ctx context.Context, id int64, viewerID string) (*models.EnrichedRecording, error) {
	var out models.EnrichedRecording
	path := "/api/recordings/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, viewerQuery(viewerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RandomRecording(ctx context.Context, viewerID string) (*models.EnrichedRecording, error) {
	var out models.EnrichedRecording
	if err := c.do(ctx, http.MethodGet, "/api/recordings/random", viewerQuery(viewerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateRecording(ctx context.Context, in models.NewRecording) (*models.Recording, error) {
	var out models.Recording
	if err := c.do(ctx, http.MethodPost, "/api/recordings", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ToggleLike(ctx context.Context, recordingID int64, userID string) (*models.LikeResult, error) {
	var out models.LikeResult
	path := "/api/recordings/" + strconv.FormatInt(recordingID, 10) + "/like"
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"userId": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestUpload(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error) {
	var out models.UploadTicket
	if err := c.do(ctx, http.MethodPost, "/api/uploads", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
