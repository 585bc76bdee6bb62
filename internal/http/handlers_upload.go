package httpx

import (
	"errors"
	"io"
	"net/http"

	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

// maxUploadBytes bounds the multipart payload read per request. The upload
// service enforces its own limit on the image itself; this guards the parse.
const maxUploadBytes = 10 << 20

// UploadImage accepts a multipart image, stores it, and returns the public
// URLs as JSON. The form then carries the returned url in its image_url field.
// POST /recipes/image.
func (h *UIHandlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "upload_error",
			Err:     errors.New("an image file is required"),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "upload_error",
			Err:     errors.New("could not read image data"),
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.UploadSvc.UploadImage(r.Context(), service.UploadImageInput{
		Data:        data,
		ContentType: contentType,
	})
	if err != nil {
		h.logger().Error("image upload failed", "content_type", contentType, "size", len(data), "error", err)
		status := http.StatusInternalServerError
		if apperrors.IsUpload(err) {
			status = http.StatusUnprocessableEntity
		}
		WriteError(w, ErrorParams{
			Code:    status,
			ErrCode: "upload_error",
			Err:     errors.New(uploadErrorMessage(err)),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"url":       result.URL,
		"thumb_url": result.ThumbURL,
	})
}

// uploadErrorMessage picks a safe message for the JSON error payload.
func uploadErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUpload && appErr.Message != "" {
		return appErr.Message
	}
	return "Unable to upload image. Please try again."
}
