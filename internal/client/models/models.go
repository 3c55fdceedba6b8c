// Package models defines the client-side view of the voice diary API:
// the JSON payloads exchanged with the server and the mood vocabulary
// offered to the user.
package models

import "time"

// User is the anonymous identity issued by the server.
type User struct {
	ID         string    `json:"id"`
	AvatarSeed string    `json:"avatarSeed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recording is a published voice note as returned by the API.
type Recording struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	AudioURL   string    `json:"audioUrl"`
	Duration   int       `json:"duration"`
	Mood       Mood      `json:"mood"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EnrichedRecording carries the author and, when a viewer was sent,
// whether the viewer likes the recording.
type EnrichedRecording struct {
	Recording
	User    *User `json:"user,omitempty"`
	IsLiked *bool `json:"isLiked,omitempty"`
}

// NewRecording is the body of POST /api/recordings.
type NewRecording struct {
	UserID   string `json:"userId"`
	AudioURL string `json:"audioUrl"`
	Duration int    `json:"duration"`
	Mood     string `json:"mood"`
}

// LikeResult is the answer of POST /api/recordings/:id/like.
type LikeResult struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// UploadRequest asks for a presigned upload slot.
type UploadRequest struct {
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum,omitempty"`
}

// UploadTicket tells the client where to PUT the blob and which location
// to reference afterwards.
type UploadTicket struct {
	UploadURL  string `json:"uploadUrl"`
	ObjectPath string `json:"objectPath"`
}
