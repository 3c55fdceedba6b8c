// Package netx contains HTTP helpers for talking to object storage.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultContentType is sent when the caller does not know the blob type.
const DefaultContentType = "application/octet-stream"

// UploadToPresignedURL PUTs body to a presigned object-storage URL.
// A nil client means http.DefaultClient. Any non-2xx answer is an error
// carrying the status and response body.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url, contentType string, body []byte) error {
	if client == nil {
		client = http.DefaultClient
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
