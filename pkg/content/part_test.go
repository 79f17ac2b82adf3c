package content

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextEncode(t *testing.T) {
	fragment, err := Text("hello").Encode()
	require.NoError(t, err)
	require.Equal(t, Fragment{"type": "text", "text": "hello"}, fragment)
}

func TestImageEncodeURLPassthrough(t *testing.T) {
	fragment, err := NewImage("https://example.com/cat.png").Encode()
	require.NoError(t, err)

	require.Equal(t, "image_url", fragment["type"])
	imageURL := fragment["image_url"].(map[string]interface{})
	require.Equal(t, "https://example.com/cat.png", imageURL["url"])
	require.Equal(t, "auto", imageURL["detail"])
}

func TestImageEncodeLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pixel.png")
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	fragment, err := NewImage(path, WithDetail(ImageDetailHigh)).Encode()
	require.NoError(t, err)

	imageURL := fragment["image_url"].(map[string]interface{})
	url := imageURL["url"].(string)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	require.Equal(t, "high", imageURL["detail"])

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestImageEncodeMissingFile(t *testing.T) {
	_, err := NewImage(filepath.Join(t.TempDir(), "nope.png")).Encode()
	require.Error(t, err)
}

func TestImageEncodeUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := NewImage(path).Encode()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported image format")
}
