// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an anonymous author or listener. Immutable after creation.
type User struct {
	ID         string    `json:"id"`
	AvatarSeed string    `json:"avatarSeed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recording is a published voice note. LikesCount mirrors the number of
// Like rows referencing it.
type Recording struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	AudioURL   string    `json:"audioUrl"`
	Duration   int       `json:"duration"`
	Mood       Mood      `json:"mood"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewRecording is the input of createRecording.
type NewRecording struct {
	UserID   string `json:"userId"`
	AudioURL string `json:"audioUrl"`
	Duration int    `json:"duration"`
	Mood     string `json:"mood"`
}

// Like marks that UserID likes RecordingID. At most one per pair.
type Like struct {
	ID          int64  `json:"id"`
	RecordingID int64  `json:"recordingId"`
	UserID      string `json:"userId"`
}

// LikeResult is returned by toggleLike.
type LikeResult struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// EnrichedRecording is a recording composed with its author and, when a
// viewer is known, whether the viewer likes it.
type EnrichedRecording struct {
	Recording
	User    *User `json:"user,omitempty"`
	IsLiked *bool `json:"isLiked,omitempty"`
}

// Upload status values.
const (
	UploadStatusPending  = "pending"
	UploadStatusAttached = "attached"
)

// Upload tracks an object-storage key handed out to a client. The audio
// bytes themselves live in object storage.
type Upload struct {
	// StorageKey is the object key inside the bucket.
	StorageKey string
	// ContentType is the MIME type the client declared.
	ContentType string
	// Size is the declared blob size in bytes.
	Size int64
	// Status is pending until a recording references the key.
	Status    string
	CreatedAt time.Time
}

// UploadTicket instructs the client where to PUT the blob and which
// location to reference afterwards.
type UploadTicket struct {
	UploadURL  string `json:"uploadUrl"`
	ObjectPath string `json:"objectPath"`
}

// UploadRequest asks for a presigned upload slot.
type UploadRequest struct {
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	// Checksum is the optional hex blake2b-256 digest of the blob.
	Checksum string `json:"checksum,omitempty"`
}
