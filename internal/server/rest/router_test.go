package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voicediary/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploads struct {
	ticket  *models.UploadTicket
	url     string
	err     error
	lastReq models.UploadRequest
	lastKey string
}

func (f *fakeUploads) CreateUpload(_ context.Context, req models.UploadRequest) (*models.UploadTicket, error) {
	f.lastReq = req
	return f.ticket, f.err
}

func (f *fakeUploads) ResolveObject(_ context.Context, key string) (string, error) {
	f.lastKey = key
	return f.url, f.err
}

type failingRecordings struct {
	RecordingService
}

func (failingRecordings) ListRecordings(context.Context, *models.Mood, models.Sort) ([]*models.Recording, error) {
	return nil, errors.New("connection reset by peer")
}

type testAPI struct {
	router  *gin.Engine
	users   *services.UserService
	recs    *services.RecordingService
	uploads *fakeUploads
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rm := repomanager.NewMemoryRepositoryManager()
	log := logging.Nop()
	us := services.NewUserService(rm, log)
	rs := services.NewRecordingService(rm, log)
	fs := services.NewFeedService(rm)
	up := &fakeUploads{}

	h := NewHandler(us, rs, fs, up, log)
	return &testAPI{router: NewRouter(h, []string{"*"}), users: us, recs: rs, uploads: up}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) seed(t *testing.T, mood models.Mood) (*models.User, *models.Recording) {
	t.Helper()
	ctx := context.Background()
	u, err := a.users.CreateUser(ctx, "")
	require.NoError(t, err)
	rec, err := a.recs.CreateRecording(ctx, models.NewRecording{
		UserID: u.ID, AudioURL: "/objects/audio/x.webm", Duration: 7, Mood: string(mood),
	})
	require.NoError(t, err)
	return u, rec
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateUser(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/users", map[string]string{"avatarSeed": "sunny"})
	require.Equal(t, http.StatusCreated, w.Code)
	u := decode[models.User](t, w)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "sunny", u.AvatarSeed)

	// empty body falls back to a random seed
	w = api.do(t, http.MethodPost, "/api/users", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	u2 := decode[models.User](t, w)
	assert.NotEmpty(t, u2.AvatarSeed)
	assert.NotEqual(t, u.ID, u2.ID)

	w = api.do(t, http.MethodPost, "/api/users", "{broken")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "body", decode[errorResponse](t, w).Field)
}

func TestGetUser(t *testing.T) {
	api := newTestAPI(t)
	u, _ := api.seed(t, models.MoodCalm)

	w := api.do(t, http.MethodGet, "/api/users/"+u.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID, decode[models.User](t, w).ID)

	w = api.do(t, http.MethodGet, "/api/users/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
}

func TestCreateRecording(t *testing.T) {
	api := newTestAPI(t)
	u, _ := api.seed(t, models.MoodCalm)

	w := api.do(t, http.MethodPost, "/api/recordings", map[string]any{
		"userId": u.ID, "audioUrl": "https://cdn.example/b.webm", "duration": 12, "mood": "happy",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rec := decode[models.Recording](t, w)
	assert.Equal(t, models.MoodHappy, rec.Mood)
	assert.Equal(t, 12, rec.Duration)
	assert.Zero(t, rec.LikesCount)

	w = api.do(t, http.MethodPost, "/api/recordings", map[string]any{
		"userId": u.ID, "audioUrl": "https://cdn.example/b.webm", "duration": 12, "mood": "Bored",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	er := decode[errorResponse](t, w)
	assert.Equal(t, "mood", er.Field)
	assert.NotEmpty(t, er.Message)

	w = api.do(t, http.MethodPost, "/api/recordings", map[string]any{
		"userId": u.ID, "audioUrl": "https://cdn.example/b.webm", "duration": -1, "mood": "Sad",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duration", decode[errorResponse](t, w).Field)
}

func TestListRecordings(t *testing.T) {
	api := newTestAPI(t)
	u, happy := api.seed(t, models.MoodHappy)
	_, sad := api.seed(t, models.MoodSad)

	_, err := api.recs.ToggleLike(context.Background(), happy.ID, u.ID)
	require.NoError(t, err)

	w := api.do(t, http.MethodGet, "/api/recordings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]models.EnrichedRecording](t, w)
	require.Len(t, all, 2)
	assert.Equal(t, sad.ID, all[0].ID)
	assert.Nil(t, all[0].IsLiked)
	require.NotNil(t, all[0].User)

	w = api.do(t, http.MethodGet, "/api/recordings?mood=All&sort=popular&userId="+u.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	popular := decode[[]models.EnrichedRecording](t, w)
	require.Len(t, popular, 2)
	assert.Equal(t, happy.ID, popular[0].ID)
	require.NotNil(t, popular[0].IsLiked)
	assert.True(t, *popular[0].IsLiked)
	require.NotNil(t, popular[1].IsLiked)
	assert.False(t, *popular[1].IsLiked)

	w = api.do(t, http.MethodGet, "/api/recordings?mood=Happy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	filtered := decode[[]models.EnrichedRecording](t, w)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.MoodHappy, filtered[0].Mood)

	w = api.do(t, http.MethodGet, "/api/recordings?sort=oldest", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sort", decode[errorResponse](t, w).Field)
}

func TestListRecordings_InternalErrorHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rm := repomanager.NewMemoryRepositoryManager()
	log := logging.Nop()
	h := NewHandler(services.NewUserService(rm, log), failingRecordings{}, services.NewFeedService(rm), &fakeUploads{}, log)
	r := NewRouter(h, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recordings", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, w.Body.String())
}

func TestGetRecording(t *testing.T) {
	api := newTestAPI(t)
	u, rec := api.seed(t, models.MoodHappy)

	w := api.do(t, http.MethodGet, fmt.Sprintf("/api/recordings/%d?userId=%s", rec.ID, u.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.EnrichedRecording](t, w)
	assert.Equal(t, rec.ID, got.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, u.ID, got.User.ID)
	require.NotNil(t, got.IsLiked)
	assert.False(t, *got.IsLiked)

	for _, path := range []string{"/api/recordings/999", "/api/recordings/abc"} {
		w = api.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"message":"Recording not found"}`, w.Body.String())
	}
}

func TestGetRandomRecording(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/recordings/random", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	_, rec := api.seed(t, models.MoodLonely)
	w = api.do(t, http.MethodGet, "/api/recordings/random", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rec.ID, decode[models.EnrichedRecording](t, w).ID)
}

func TestToggleLike(t *testing.T) {
	api := newTestAPI(t)
	u, rec := api.seed(t, models.MoodExcited)
	path := fmt.Sprintf("/api/recordings/%d/like", rec.ID)

	w := api.do(t, http.MethodPost, path, map[string]string{"userId": u.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"liked":true,"likesCount":1}`, w.Body.String())

	w = api.do(t, http.MethodPost, path, map[string]string{"userId": u.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"liked":false,"likesCount":0}`, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/recordings/424242/like", map[string]string{"userId": u.ID})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, path, map[string]string{"userId": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "userId", decode[errorResponse](t, w).Field)
}

func TestCreateUpload(t *testing.T) {
	api := newTestAPI(t)
	api.uploads.ticket = &models.UploadTicket{UploadURL: "http://s3.local/put", ObjectPath: "/objects/audio/k"}

	w := api.do(t, http.MethodPost, "/api/uploads", map[string]any{"contentType": "audio/webm", "size": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uploadUrl":"http://s3.local/put","objectPath":"/objects/audio/k"}`, w.Body.String())
	assert.Equal(t, "audio/webm", api.uploads.lastReq.ContentType)
	assert.EqualValues(t, 10, api.uploads.lastReq.Size)

	api.uploads.err = common.NewValidationError("size", "too large")
	w = api.do(t, http.MethodPost, "/api/uploads", map[string]any{"contentType": "audio/webm", "size": 1 << 40})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "size", decode[errorResponse](t, w).Field)
}

func TestGetObject(t *testing.T) {
	api := newTestAPI(t)
	api.uploads.url = "http://s3.local/get/audio/k"

	w := api.do(t, http.MethodGet, "/objects/audio/k", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://s3.local/get/audio/k", w.Header().Get("Location"))
	assert.Equal(t, "/audio/k", api.uploads.lastKey)

	api.uploads.err = common.ErrorNotFound
	w = api.do(t, http.MethodGet, "/objects/audio/unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/recordings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
