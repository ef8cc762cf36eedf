package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/services"
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/pkg/apperrors"
)

type ReadingHandler struct {
	*BaseHandler
	uploadService  services.UploadService
	readingService services.ReadingService
	maxUploadSize  int64
}

func NewReadingHandler(
	base *BaseHandler,
	uploadService services.UploadService,
	readingService services.ReadingService,
	maxUploadSize int64,
) *ReadingHandler {
	return &ReadingHandler{
		BaseHandler:    base,
		uploadService:  uploadService,
		readingService: readingService,
		maxUploadSize:  maxUploadSize,
	}
}

// Submit accepts a multipart form with the meter photo under "photo" plus
// optional patient fields, runs the analysis and returns the classified
// reading.
func (h *ReadingHandler) Submit(c *gin.Context) {
	accountID, ok := h.GetAndAuthorizeAccountID(c)
	if !ok {
		return
	}

	var req dto.UploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid form fields: "+err.Error()))
		return
	}

	image, ok := h.readPhoto(c)
	if !ok {
		return
	}

	result, err := h.uploadService.Submit(c.Request.Context(), accountID, &req, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List returns the account's reading history, newest first. The limit
// query parameter caps the page; it defaults server-side.
func (h *ReadingHandler) List(c *gin.Context) {
	accountID, ok := h.GetAndAuthorizeAccountID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 0)
	readings := h.readingService.History(accountID, limit)

	c.JSON(http.StatusOK, gin.H{
		"readings": readings,
		"count":    len(readings),
	})
}

func (h *ReadingHandler) readPhoto(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.HandleServiceError(c, apperrors.ErrMissingImage)
		return nil, false
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Photo exceeds the maximum upload size"))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return nil, false
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to read uploaded photo", err)
		h.HandleServiceError(c, apperrors.InternalError(err))
		return nil, false
	}
	return image, true
}
