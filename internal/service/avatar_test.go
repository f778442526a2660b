package service

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskmanager/internal/errors"
)

func encodeImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{G: 128, B: 255, A: 255}), format))
	return buf.Bytes()
}

func TestProcessAvatar(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"wide jpeg", "photo.jpg", encodeImage(t, 800, 200, imaging.JPEG)},
		{"tall png", "photo.png", encodeImage(t, 100, 600, imaging.PNG)},
		{"small jpeg", "photo.jpeg", encodeImage(t, 10, 10, imaging.JPEG)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ProcessAvatar(tt.filename, bytes.NewReader(tt.data))
			require.NoError(t, err)

			img, format, err := decodeFormat(out)
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, AvatarDimension, img.Dx())
			assert.Equal(t, AvatarDimension, img.Dy())
		})
	}
}

func TestProcessAvatar_Rejects(t *testing.T) {
	png := encodeImage(t, 20, 20, imaging.PNG)

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     error
	}{
		{"pdf extension", "resume.pdf", png, apperrors.ErrInvalidImage},
		{"no extension", "avatar", png, apperrors.ErrInvalidImage},
		{"uppercase extension", "photo.JPG", png, apperrors.ErrInvalidImage},
		{"extension not at end", "photo.png.exe", png, apperrors.ErrInvalidImage},
		{"not an image", "photo.png", []byte("plain text"), apperrors.ErrInvalidImage},
		{"too large", "photo.png", []byte(strings.Repeat("a", MaxAvatarSize+1)), apperrors.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProcessAvatar(tt.filename, bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func decodeFormat(data []byte) (image.Rectangle, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Rectangle{}, "", err
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height), format, nil
}
