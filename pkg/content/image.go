package content

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type ImageDetail string

const (
	ImageDetailLow  ImageDetail = "low"
	ImageDetailHigh ImageDetail = "high"
	ImageDetailAuto ImageDetail = "auto"
)

const maxImageSize = 20 * 1024 * 1024

// Image is an image message part, referenced either by URL or by local file
// path. Local files are inlined as base64 data URLs on encode.
type Image struct {
	PathOrURL string
	Detail    ImageDetail
}

type ImageOption func(*Image)

func WithDetail(detail ImageDetail) ImageOption {
	return func(img *Image) {
		img.Detail = detail
	}
}

func NewImage(pathOrURL string, options ...ImageOption) *Image {
	ret := &Image{
		PathOrURL: pathOrURL,
		Detail:    ImageDetailAuto,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (img *Image) Encode() (Fragment, error) {
	url := img.PathOrURL

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		dataURL, err := encodeLocalFile(img.PathOrURL)
		if err != nil {
			return nil, err
		}
		url = dataURL
	}

	return Fragment{
		"type": "image_url",
		"image_url": map[string]interface{}{
			"url":    url,
			"detail": string(img.Detail),
		},
	}, nil
}

var _ Part = (*Image)(nil)

func encodeLocalFile(path string) (string, error) {
	mediaType := getMediaTypeFromExtension(filepath.Ext(path))
	if mediaType == "" {
		return "", errors.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not stat image file %s", path)
	}
	if fileInfo.Size() > maxImageSize {
		return "", errors.Errorf("image size exceeds 20MB limit: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not read image file %s", path)
	}

	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data)), nil
}

func getMediaTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return ""
	}
}
