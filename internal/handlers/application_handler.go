package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/middleware"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/services"
	"campaignhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	views              services.CommentViewService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService, views services.CommentViewService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		views:              views,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	influencerOnly := middleware.RequireRoles(models.UserRoleInfluencer)
	reviewers := middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin, models.UserRoleBrand)
	canReviewApplications := middleware.RequirePermission(auth.PermApplicationsReview)
	canReviewOrders := middleware.RequirePermission(auth.PermOrdersReview)

	applications := r.Group("/applications")
	applications.Use(h.Auth)
	{
		applications.POST("", influencerOnly, h.Apply)
		applications.GET("/my", influencerOnly, h.ListMyApplications)
		applications.GET("", reviewers, canReviewApplications, h.ListApplications)
		applications.GET("/:id", h.GetApplication)

		applications.POST("/:id/approve", reviewers, canReviewApplications, h.Approve)
		applications.POST("/:id/reject", reviewers, canReviewApplications, h.Reject)

		applications.PATCH("/:id/order", influencerOnly, h.SubmitOrder)
		applications.GET("/orders", reviewers, canReviewOrders, h.ListOrders)
		applications.GET("/orders/export", reviewers, canReviewOrders, h.ExportOrders)
		applications.POST("/:id/order/approve", reviewers, canReviewOrders, h.ApproveOrder)
		applications.POST("/:id/order/reject", reviewers, canReviewOrders, h.RejectOrder)
	}
}

// --- Отклик и чтение ---

func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.views.Application(c.Request.Context(), actor, app))
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetApplication(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.views.Application(c.Request.Context(), actor, app))
}

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	apps, err := h.applicationService.ListApplications(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondList(c, actor, apps)
}

func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListMyApplications(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondList(c, actor, apps)
}

func (h *ApplicationHandler) ListOrders(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListOrders(c.Request.Context(), c.Query("campaign_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondList(c, actor, apps)
}

// ExportOrders отдает CSV целиком; ошибка до записи тела уходит обычным JSON
func (h *ApplicationHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.applicationService.ExportOrders(c.Request.Context(), c.Query("campaign_id"), &buf); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// --- Переходы ---

func (h *ApplicationHandler) Approve(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.applicationService.Approve(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.applicationService.Reject(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *ApplicationHandler) SubmitOrder(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SubmitOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.applicationService.SubmitOrder(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *ApplicationHandler) ApproveOrder(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.OrderReviewRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.applicationService.ApproveOrder(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *ApplicationHandler) RejectOrder(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.OrderReviewRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.applicationService.RejectOrder(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

// --- helpers ---

func (h *ApplicationHandler) respondOutcome(c *gin.Context, actor models.Actor, outcome *services.ApplicationOutcome, err error) {
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationActionResponse{
		Application: h.views.Application(c.Request.Context(), actor, outcome.Application),
		Payment:     outcome.Payment,
		Effects:     outcome.Effects,
	})
}

func (h *ApplicationHandler) respondList(c *gin.Context, actor models.Actor, apps []models.Application) {
	views := h.views.Applications(c.Request.Context(), actor, apps)
	if views == nil {
		views = []*dto.ApplicationView{}
	}
	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Applications: views,
		Total:        len(views),
	})
}
