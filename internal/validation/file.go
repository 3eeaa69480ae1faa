package validation

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrNoFile              = errors.New("no file part in request")
	ErrEmptyFilename       = errors.New("no file selected")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrFileTooLarge        = errors.New("file too large")
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints defines validation rules for photo uploads.
// Only the extension is checked: heic is not recognised by content sniffing.
var ImageConstraints = FileConstraints{
	AllowedExtensions: map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".heic": true,
		".webp": true,
	},
	MaxSize: 16 << 20, // 16MB
}

// extra MIME types not always present in the system mime table
var imageMimeTypes = map[string]string{
	".heic": "image/heic",
	".webp": "image/webp",
}

// ValidateFile validates an uploaded file header against the constraints.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) error {
	if header == nil {
		return ErrNoFile
	}
	if strings.TrimSpace(header.Filename) == "" {
		return ErrEmptyFilename
	}

	ext := Ext(header.Filename)
	if !constraints.AllowedExtensions[ext] {
		if ext == "" {
			return fmt.Errorf("%w: missing extension", ErrExtensionNotAllowed)
		}
		return fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}

	if constraints.MaxSize > 0 && header.Size > constraints.MaxSize {
		return fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, constraints.MaxSize/(1<<20))
	}

	return nil
}

// Ext returns the lower-cased extension of name, including the dot.
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "." {
		return ""
	}
	return ext
}

// ContentType guesses the MIME type of an image from its filename.
func ContentType(name string) string {
	ext := Ext(name)
	if ct, ok := imageMimeTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
