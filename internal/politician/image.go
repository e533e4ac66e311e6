package politician

import (
	"bytes"
	"mime/multipart"

	"github.com/disintegration/imaging"
)

const profileImageMaxSide = 512

// normalizeProfileImage decodes an upload, fits it into a square box and
// re-encodes it as JPEG so every stored profile image has the same format.
func normalizeProfileImage(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > profileImageMaxSide || bounds.Dy() > profileImageMaxSide {
		img = imaging.Fit(img, profileImageMaxSide, profileImageMaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
