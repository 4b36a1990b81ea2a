// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"

	thumbnailWidth  = 320
	thumbnailHeight = 240
)

// AllowedMimeTypes defines the MIME types that can be uploaded.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MediaFile describes a stored upload.
type MediaFile struct {
	UUID         string `json:"uuid"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// MediaService stores uploaded files on disk under random names, with a
// fitted thumbnail for images.
type MediaService struct {
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{uploadDir: uploadDir}
}

// Upload validates and stores one uploaded file.
func (s *MediaService) Upload(file multipart.File, header *multipart.FileHeader) (*MediaFile, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !AllowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("file type %s is not allowed", mimeType)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileUUID := uuid.New().String()
	storedName := fileUUID + strings.ToLower(filepath.Ext(header.Filename))
	storedPath := filepath.Join(s.uploadDir, storedName)

	size, err := saveFile(file, storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	result := &MediaFile{
		UUID:     fileUUID,
		Filename: sanitizeFilename(header.Filename),
		MimeType: mimeType,
		Size:     size,
		URL:      "/uploads/" + storedName,
	}

	if imageMimeTypes[mimeType] {
		thumbName, err := s.createThumbnail(storedPath, fileUUID)
		if err != nil {
			// The original is already stored; serve it without a thumbnail.
			return result, nil
		}
		result.ThumbnailURL = "/uploads/thumbs/" + thumbName
	}

	return result, nil
}

// createThumbnail writes a fitted JPEG thumbnail and returns its filename.
func (s *MediaService) createThumbnail(sourcePath, fileUUID string) (string, error) {
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	thumbDir := filepath.Join(s.uploadDir, "thumbs")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", err
	}

	thumb := imaging.Fit(img, thumbnailWidth, thumbnailHeight, imaging.Lanczos)
	thumbName := fileUUID + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(thumbDir, thumbName), imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return thumbName, nil
}

// Dimensions reports the pixel size of a stored image.
func (s *MediaService) Dimensions(storedName string) (width, height int, err error) {
	f, err := os.Open(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func saveFile(src io.Reader, path string) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return size, nil
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// sanitizeFilename strips path components and unsafe characters from an
// uploaded filename. The result is display-only; storage names are UUIDs.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
