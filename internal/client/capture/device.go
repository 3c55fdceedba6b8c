// Package capture records microphone audio into a single playable blob.
package capture

import (
	"context"
	"io"
)

// Device opens a microphone stream.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream yields encoded audio until Stop is called.
type Stream interface {
	io.Reader
	// Stop ends capture; reads drain the remaining bytes then return io.EOF.
	Stop() error
	// MIMEType describes the encoded bytes.
	MIMEType() string
}
