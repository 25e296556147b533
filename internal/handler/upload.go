package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rlportal/research-log/internal/middleware"
	"github.com/rlportal/research-log/internal/repository"
	"github.com/rlportal/research-log/internal/storage"
)

// allowedUploadTypes is the MIME allow-list for research artifacts: PDF,
// common images, Word documents and plain text.
var allowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// maxUploadBytes caps uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler stores a research artifact in the object store and records
// it in the relational store.
type UploadHandler struct {
	Research repository.ResearchRepository
	Logs     repository.LogRepository
	Blobs    storage.BlobStore

	publish activityPublisher
}

func NewUploadHandler(research repository.ResearchRepository, logs repository.LogRepository, blobs storage.BlobStore) *UploadHandler {
	return &UploadHandler{
		Research: research,
		Logs:     logs,
		Blobs:    blobs,
		publish:  defaultActivityPublisher,
	}
}

// Upload accepts a single multipart file plus a description field.
// Validation runs in a fixed order (description, file type, size) and
// rejects before anything is written. On success each step gates the next:
// object write, URL resolution, research record insert, log append. Any
// failure stops the chain immediately so no partial success is ever
// acknowledged.
func (h *UploadHandler) Upload(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Description is required"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "File is required"})
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid file type"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "File too large (max 10 MiB)"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Could not read uploaded file"})
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Could not read uploaded file"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	key := storage.NewObjectKey(fileHeader.Filename)
	if err := h.Blobs.Put(ctx, key, contentType, data); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Storing the file failed"})
	}
	fileURL, err := h.Blobs.PublicURL(ctx, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Resolving the file URL failed"})
	}
	rec, err := h.Research.Create(ctx, p.ID, description, &fileURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Saving the research record failed"})
	}
	entry, err := h.Logs.Create(ctx, p.ID, "uploaded research file "+fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Recording the activity failed"})
	}
	h.publish(ctx, entry)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Upload successful",
		"data":    rec,
	})
}
