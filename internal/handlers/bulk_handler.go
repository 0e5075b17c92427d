package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/middleware"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/services"
	"campaignhub_backend/internal/validator"
	"campaignhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Ограничение на размер загружаемой таблицы
const maxBulkUploadBytes = 10 << 20

type BulkHandler struct {
	*BaseHandler
	bulkService services.BulkReviewService
}

func NewBulkHandler(base *BaseHandler, bulkService services.BulkReviewService) *BulkHandler {
	return &BulkHandler{
		BaseHandler: base,
		bulkService: bulkService,
	}
}

func (h *BulkHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviewers := middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin, models.UserRoleBrand)

	bulk := r.Group("/applications")
	bulk.Use(h.Auth, reviewers)
	{
		bulk.POST("/bulk-review",
			middleware.RequirePermission(auth.PermApplicationsReview),
			h.process(validator.BulkVariantReview),
		)
		bulk.POST("/orders/bulk-review",
			middleware.RequirePermission(auth.PermOrdersReview),
			h.process(validator.BulkVariantOrder),
		)
	}
}

// process - файл в поле "file" (multipart) или сырое тело запроса.
// Ошибки отдельных строк попадают в сводку, ответ всегда 200.
func (h *BulkHandler) process(variant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		data, err := readBulkPayload(c)
		if err != nil {
			logger.CtxWarn(ctx, "Bulk payload rejected", "variant", variant, "error", err)
			apperrors.HandleError(c, apperrors.NewBadRequestError(err.Error()))
			return
		}

		rows, campaignID, err := services.ParseBulkInput(data)
		if err != nil {
			logger.CtxWarn(ctx, "Bulk payload is not parseable", "variant", variant, "error", err)
			apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to parse rows: "+err.Error()))
			return
		}

		if q := strings.TrimSpace(c.Query("campaign_id")); q != "" {
			campaignID = q
		}

		result := h.bulkService.Process(ctx, actor, variant, rows, campaignID)
		c.JSON(http.StatusOK, result)
	}
}

func readBulkPayload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBulkUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, errors.New("multipart upload must contain a \"file\" field")
		}
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readNonEmpty(f)
	}

	return readNonEmpty(c.Request.Body)
}

func readNonEmpty(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("request contains no rows")
	}
	return data, nil
}
