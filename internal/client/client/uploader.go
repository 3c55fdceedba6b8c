package client

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/netx"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
	"golang.org/x/crypto/blake2b"
)

// Checksum is the hex blake2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Uploader stores blobs in object storage via presigned URLs issued by the API.
type Uploader struct {
	api  API
	http *http.Client
}

func NewUploader(api API, hc *http.Client) *Uploader {
	return &Uploader{api: api, http: hc}
}

// Upload sends data and returns the location to reference in a recording.
// Every failure matches common.ErrUploadFailure; validation answers also
// keep their *common.ValidationError.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty blob", common.ErrUploadFailure)
	}
	if contentType == "" {
		contentType = netx.DefaultContentType
	}

	ticket, err := u.api.RequestUpload(ctx, models.UploadRequest{
		ContentType: contentType,
		Size:        int64(len(data)),
		Checksum:    Checksum(data),
	})
	if err != nil {
		return "", errors.Join(common.ErrUploadFailure, err)
	}

	if err := netx.UploadToPresignedURL(ctx, u.http, ticket.UploadURL, contentType, data); err != nil {
		return "", errors.Join(common.ErrUploadFailure, err)
	}

	return ticket.ObjectPath, nil
}
