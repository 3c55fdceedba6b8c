// Package client contains the CLI's view of the voice diary backend.
//
// # Overview
//
// The package provides:
//  1. API, the REST contract of the backend, and HTTPClient, its
//     implementation over net/http that maps status codes back onto the
//     shared sentinel errors.
//  2. HealthClient, a gRPC health check used to show online status.
//  3. Uploader, which stores a captured blob in object storage through a
//     presigned URL and returns the location to reference in a recording.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match errors with errors.Is / errors.As:
//   - *common.ValidationError for 400 answers (the field is preserved),
//   - common.ErrorNotFound for 404,
//   - common.ErrUnavailable for transport failures and 502/503/504,
//   - common.ErrorInternal for any other failure status,
//   - common.ErrUploadFailure from Uploader.
package client
