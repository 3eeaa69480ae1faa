package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/locketmemories/locket/internal/model"
	"github.com/locketmemories/locket/internal/service"
	"github.com/locketmemories/locket/internal/validation"
)

// multipart headers and the caption field ride on top of the file itself
const multipartOverhead = 1 << 20

type ImageHandler struct {
	imageService *service.ImageService
	constraints  validation.FileConstraints
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		constraints:  validation.ImageConstraints,
	}
}

type uploadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Image   *model.Image `json:"image"`
}

type listResponse struct {
	Success bool           `json:"success"`
	Images  []*model.Image `json:"images"`
	Count   int            `json:"count"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Upload accepts a multipart form with a "file" part and an optional caption.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.constraints.MaxSize+multipartOverhead)

	err := r.ParseMultipartForm(8 << 20)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeServiceError(w, r, err)
			return
		}
		writeServiceError(w, r, validation.ErrNoFile)
		return
	}
	defer func() {
		removeErr := r.MultipartForm.RemoveAll()
		if removeErr != nil {
			slog.Warn("failed to remove multipart temp files", "error", removeErr)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeServiceError(w, r, validation.ErrNoFile)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, h.constraints)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	img, err := h.imageService.Upload(r.Context(), service.UploadInput{
		Filename: header.Filename,
		Caption:  r.FormValue("caption"),
		Body:     file,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Message: "Image uploaded successfully",
		Image:   img,
	})
}

// List returns every image, newest first.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if images == nil {
		images = []*model.Image{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Images:  images,
		Count:   len(images),
	})
}

// Delete removes an image and its stored bytes.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.imageService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: "Image deleted successfully",
	})
}
