package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	msgUserNotFound      = "User not found"
	msgRecordingNotFound = "Recording not found"
	msgObjectNotFound    = "Object not found"
)

type createUserRequest struct {
	AvatarSeed string `json:"avatarSeed"`
}

type toggleLikeRequest struct {
	UserID string `json:"userId"`
}

// bindOptionalJSON decodes the body into v; an empty body leaves v untouched.
func bindOptionalJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func recordingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badBody(c)
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), req.AvatarSeed)
	if err != nil {
		h.respondError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ListRecordings(c *gin.Context) {
	mood, err := models.ParseMoodFilter(c.Query("mood"))
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	sort, err := models.ParseSort(c.Query("sort"))
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}

	ctx := c.Request.Context()
	recs, err := h.recordings.ListRecordings(ctx, mood, sort)
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	out, err := h.feed.ComposeAll(ctx, recs, c.Query("userId"))
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetRecording(c *gin.Context) {
	id, ok := recordingID(c)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgRecordingNotFound})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.recordings.GetRecording(ctx, id)
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	h.writeEnriched(c, rec)
}

func (h *Handler) GetRandomRecording(c *gin.Context) {
	rec, err := h.recordings.GetRandomRecording(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "No recordings found")
		return
	}
	h.writeEnriched(c, rec)
}

func (h *Handler) writeEnriched(c *gin.Context, rec *models.Recording) {
	out, err := h.feed.Compose(c.Request.Context(), rec, c.Query("userId"))
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateRecording(c *gin.Context) {
	var req models.NewRecording
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	rec, err := h.recordings.CreateRecording(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := recordingID(c)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgRecordingNotFound})
		return
	}

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	res, err := h.recordings.ToggleLike(c.Request.Context(), id, req.UserID)
	if err != nil {
		h.respondError(c, err, msgRecordingNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateUpload(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	ticket, err := h.uploads.CreateUpload(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, msgObjectNotFound)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// GetObject redirects to a short-lived download URL for an issued key.
func (h *Handler) GetObject(c *gin.Context) {
	url, err := h.uploads.ResolveObject(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.respondError(c, err, msgObjectNotFound)
		return
	}
	c.Redirect(http.StatusFound, url)
}
