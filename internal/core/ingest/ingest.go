// Package ingest validates uploaded or dropped files and turns them into
// in-memory image payloads ready for text extraction.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"strings"

	// Decoders registered for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotAnImage is returned for anything that is not a decodable, allowed image
	ErrNotAnImage = errors.New("file is not a supported image")

	// ErrTooLarge is returned when the file exceeds Options.MaxSize
	ErrTooLarge = errors.New("file exceeds the maximum allowed size")
)

// ImagePayload is an encoded image held in memory plus what was learned
// about it while validating.
type ImagePayload struct {
	Data         []byte `json:"-"`
	MediaType    string `json:"media_type"`
	DeclaredType string `json:"declared_type,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// DataURL returns the payload as a data: URL that a browser can display directly
func (p ImagePayload) DataURL() string {
	return "data:" + p.MediaType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// IsImage reports whether mediaType names an image type
func IsImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

// Ingestor validates raw files against its options
type Ingestor struct {
	opts *Options
}

// NewIngestor creates an ingestor; nil options use the defaults
func NewIngestor(opts *Options) *Ingestor {
	return &Ingestor{opts: MergeOptions(opts)}
}

// Options returns the effective options
func (i *Ingestor) Options() Options {
	return *i.opts
}

// Ingest reads r fully and validates it. The content is sniffed; the
// declared type is kept for reference only.
func (i *Ingestor) Ingest(ctx context.Context, r io.Reader, fileName, declaredType string) (ImagePayload, error) {
	data, err := io.ReadAll(io.LimitReader(&ctxReader{ctx: ctx, r: r}, i.opts.MaxSize+1))
	if err != nil {
		return ImagePayload{}, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > i.opts.MaxSize {
		return ImagePayload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, i.opts.MaxSize)
	}
	if len(data) == 0 {
		return ImagePayload{}, fmt.Errorf("%w: empty file", ErrNotAnImage)
	}

	mediaType := mimetype.Detect(data).String()
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	if !IsImage(mediaType) || !i.opts.allows(mediaType) {
		return ImagePayload{}, fmt.Errorf("%w: detected %s", ErrNotAnImage, mediaType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImagePayload{}, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	return ImagePayload{
		Data:         data,
		MediaType:    mediaType,
		DeclaredType: declaredType,
		FileName:     fileName,
		Size:         int64(len(data)),
		Width:        cfg.Width,
		Height:       cfg.Height,
	}, nil
}

// IngestMultipart validates a file from a multipart form
func (i *Ingestor) IngestMultipart(ctx context.Context, fileHeader *multipart.FileHeader) (ImagePayload, error) {
	if fileHeader.Size > i.opts.MaxSize {
		return ImagePayload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, i.opts.MaxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ImagePayload{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return i.Ingest(ctx, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
}

// ctxReader stops a long read once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
