package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// DataURLBytes strips an optional data-URL prefix
// ("data:image/jpeg;base64,") and decodes the base64 payload.
func DataURLBytes(dataURL string) ([]byte, error) {
	payload := dataURL
	if idx := strings.Index(dataURL, ","); idx >= 0 {
		payload = dataURL[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image payload: %w", err)
	}
	return data, nil
}

// DecodeDataURL decodes a base64 data-URL frame into a BGR Mat.
// The caller owns the returned Mat and must Close it.
func DecodeDataURL(dataURL string) (gocv.Mat, error) {
	data, err := DataURLBytes(dataURL)
	if err != nil {
		return gocv.Mat{}, err
	}
	return DecodeImageBytes(data)
}

// DecodeImageBytes decodes raw encoded image bytes into a BGR Mat.
func DecodeImageBytes(data []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("decoded image is empty")
	}
	return img, nil
}
