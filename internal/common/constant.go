package common

// UserIDKey is the well-known metadata key under which the client persists
// its anonymous identity token.
const UserIDKey = "voice_diary_user_id"

// HealthServiceName is the gRPC health service name of the voice diary API.
const HealthServiceName = "voicediary.v1.VoiceDiary"
