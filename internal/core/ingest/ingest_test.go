package ingest

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sampleImage(w, h)))
	return buf.Bytes()
}

func TestIngest_AcceptsCommonFormats(t *testing.T) {
	var jpg, gf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, sampleImage(40, 20), nil))
	require.NoError(t, gif.Encode(&gf, sampleImage(40, 20), nil))

	tests := []struct {
		name      string
		data      []byte
		mediaType string
	}{
		{"png", encodePNG(t, 40, 20), "image/png"},
		{"jpeg", jpg.Bytes(), "image/jpeg"},
		{"gif", gf.Bytes(), "image/gif"},
	}

	ing := NewIngestor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ing.Ingest(context.Background(), bytes.NewReader(tt.data), "photo", "")
			require.NoError(t, err)
			assert.Equal(t, tt.mediaType, payload.MediaType)
			assert.Equal(t, 40, payload.Width)
			assert.Equal(t, 20, payload.Height)
			assert.Equal(t, int64(len(tt.data)), payload.Size)
			assert.Equal(t, tt.data, payload.Data)
		})
	}
}

func TestIngest_SniffsContentOverDeclaredType(t *testing.T) {
	data := encodePNG(t, 8, 8)

	payload, err := NewIngestor(nil).Ingest(context.Background(), bytes.NewReader(data), "notes.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "image/png", payload.MediaType)
	assert.Equal(t, "text/plain", payload.DeclaredType)
	assert.Equal(t, "notes.txt", payload.FileName)
}

func TestIngest_RejectsNonImages(t *testing.T) {
	png := encodePNG(t, 8, 8)

	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("hello, this is definitely not an image")},
		{"pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")},
		{"truncated png", png[:20]},
		{"empty", nil},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`)},
	}

	ing := NewIngestor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ing.Ingest(context.Background(), bytes.NewReader(tt.data), "file", "")
			assert.ErrorIs(t, err, ErrNotAnImage)
		})
	}
}

func TestIngest_RejectsTooLarge(t *testing.T) {
	data := encodePNG(t, 64, 64)
	ing := NewIngestor(&Options{MaxSize: int64(len(data) - 1)})

	_, err := ing.Ingest(context.Background(), bytes.NewReader(data), "big.png", "image/png")
	assert.ErrorIs(t, err, ErrTooLarge)

	ing = NewIngestor(&Options{MaxSize: int64(len(data))})
	_, err = ing.Ingest(context.Background(), bytes.NewReader(data), "exact.png", "image/png")
	assert.NoError(t, err)
}

func TestIngest_RespectsAllowedTypes(t *testing.T) {
	ing := NewIngestor(&Options{AllowedTypes: []string{"image/jpeg"}})

	_, err := ing.Ingest(context.Background(), bytes.NewReader(encodePNG(t, 4, 4)), "a.png", "")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestIngest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIngestor(nil).Ingest(ctx, bytes.NewReader(encodePNG(t, 4, 4)), "a.png", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestMultipart(t *testing.T) {
	data := encodePNG(t, 12, 6)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="sign.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	payload, err := NewIngestor(nil).IngestMultipart(context.Background(), form.File["image"][0])
	require.NoError(t, err)
	assert.Equal(t, "sign.png", payload.FileName)
	assert.Equal(t, "image/png", payload.DeclaredType)
	assert.Equal(t, 12, payload.Width)
}

func TestImagePayload_DataURL(t *testing.T) {
	p := ImagePayload{Data: []byte{0x01, 0x02, 0x03}, MediaType: "image/png"}
	assert.Equal(t, "data:image/png;base64,AQID", p.DataURL())
	assert.True(t, strings.HasPrefix(p.DataURL(), "data:image"))
}

func TestMergeOptions(t *testing.T) {
	assert.Equal(t, DefaultOptions(), MergeOptions(nil))

	merged := MergeOptions(&Options{MaxSize: 42})
	assert.Equal(t, int64(42), merged.MaxSize)
	assert.Equal(t, DefaultOptions().AllowedTypes, merged.AllowedTypes)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage(" IMAGE/JPEG"))
	assert.False(t, IsImage("application/pdf"))
	assert.False(t, IsImage(""))
}
