// Package rest exposes the voice diary JSON API over gin.
package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// UserService is the identity part of the store.
type UserService interface {
	CreateUser(ctx context.Context, seed string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// RecordingService is the engagement store.
type RecordingService interface {
	CreateRecording(ctx context.Context, in models.NewRecording) (*models.Recording, error)
	GetRecording(ctx context.Context, id int64) (*models.Recording, error)
	ListRecordings(ctx context.Context, mood *models.Mood, sort models.Sort) ([]*models.Recording, error)
	GetRandomRecording(ctx context.Context) (*models.Recording, error)
	ToggleLike(ctx context.Context, recordingID int64, userID string) (*models.LikeResult, error)
}

// FeedService composes recordings for presentation.
type FeedService interface {
	Compose(ctx context.Context, rec *models.Recording, viewerID string) (*models.EnrichedRecording, error)
	ComposeAll(ctx context.Context, recs []*models.Recording, viewerID string) ([]*models.EnrichedRecording, error)
}

// UploadService hands out object storage slots and resolves them for playback.
type UploadService interface {
	CreateUpload(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error)
	ResolveObject(ctx context.Context, key string) (string, error)
}

// Handler serves the API routes.
type Handler struct {
	users      UserService
	recordings RecordingService
	feed       FeedService
	uploads    UploadService
	logger     logging.Logger
}

func NewHandler(us UserService, rs RecordingService, fs FeedService, ups UploadService, l logging.Logger) *Handler {
	return &Handler{
		users:      us,
		recordings: rs,
		feed:       fs,
		uploads:    ups,
		logger:     l.With("module", "rest"),
	}
}

// NewRouter builds the gin engine with CORS, request logging and all routes.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(h.logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)

		api.GET("/recordings", h.ListRecordings)
		api.POST("/recordings", h.CreateRecording)
		api.GET("/recordings/random", h.GetRandomRecording)
		api.GET("/recordings/:id", h.GetRecording)
		api.POST("/recordings/:id/like", h.ToggleLike)

		api.POST("/uploads", h.CreateUpload)
	}

	r.GET("/objects/*key", h.GetObject)

	return r
}

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
