package service

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/disintegration/imaging"

	apperrors "taskmanager/internal/errors"
)

const (
	// MaxAvatarSize is the largest accepted upload in bytes.
	MaxAvatarSize = 1_000_000
	// AvatarDimension is the width and height of stored avatars.
	AvatarDimension = 250
)

var avatarExtension = regexp.MustCompile(`\.(jpg|jpeg|png)$`)

// ProcessAvatar validates an uploaded image and returns it as a 250x250 PNG.
// The image is scaled to cover the square and centre-cropped.
func ProcessAvatar(filename string, r io.Reader) ([]byte, error) {
	if !avatarExtension.MatchString(filename) {
		return nil, apperrors.ErrInvalidImage
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(raw) > MaxAvatarSize {
		return nil, apperrors.ErrFileTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}

	resized := imaging.Fill(img, AvatarDimension, AvatarDimension, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
