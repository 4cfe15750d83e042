package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type RequisitionHandler struct {
	requisitionService service.RequisitionService
}

func NewRequisitionHandler(requisitionService service.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService}
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	requisitions := router.Group("/api/requisitions")
	{
		requisitions.GET("", middleware.RequirePermission("requisitions.read"), h.List)
		requisitions.POST("", middleware.RequirePermission("requisitions.write"), h.Submit)
		requisitions.GET("/:id", middleware.RequirePermission("requisitions.read"), h.Get)
		requisitions.POST("/:id/approve", middleware.RequirePermission("requisitions.approve"), h.Approve)
		requisitions.POST("/:id/reject", middleware.RequirePermission("requisitions.approve"), h.Reject)
		requisitions.POST("/:id/fulfill", middleware.RequirePermission("stock.adjust"), h.Fulfill)
		requisitions.POST("/:id/cancel", middleware.RequireRole(model.RoleAdministrator, model.RoleCoordinator), h.Cancel)
	}
}

// List returns requisitions filtered by status
// @Summary      List requisitions
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.RequisitionFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	requisitions, total, err := h.requisitionService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requisitions": requisitions,
		"total":        total,
		"page":         params.Page,
		"limit":        params.Limit,
	}))
}

// Get returns one requisition with its lines
// @Summary      Get requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) Get(c *gin.Context) {
	requisition, err := h.requisitionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Submit creates a requisition
// @Summary      Submit requisition
// @Description  Creates a requisition; with approval_required=false it is created pre-approved at the requested quantities
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequisitionRequest  true  "Submit Requisition Payload"
// @Success      201  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      400  {object}  response.Response
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.Submit(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requisition))
}

// Approve moves a pending requisition to approved
// @Summary      Approve requisition
// @Description  Approves a pending requisition, optionally overriding per-line quantities; approving twice is a no-op
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Requisition ID"
// @Param        payload  body      service.ApproveRequisitionRequest  true  "Approval Payload"
// @Success      200  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/approve [post]
func (h *RequisitionHandler) Approve(c *gin.Context) {
	var req service.ApproveRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.Approve(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Reject declines a pending requisition
// @Summary      Reject requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Requisition ID"
// @Param        payload  body      service.RejectRequisitionRequest  true  "Rejection Payload"
// @Success      200  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/reject [post]
func (h *RequisitionHandler) Reject(c *gin.Context) {
	var req service.RejectRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.Reject(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Fulfill issues stock against approved lines
// @Summary      Fulfill requisition
// @Description  Issues stock for approved lines, decrementing material levels and recording one movement per line
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Requisition ID"
// @Param        payload  body      service.FulfillRequisitionRequest  true  "Fulfillment Payload"
// @Success      200  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/fulfill [post]
func (h *RequisitionHandler) Fulfill(c *gin.Context) {
	var req service.FulfillRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.Fulfill(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Cancel withdraws an approved requisition
// @Summary      Cancel requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.MaterialRequisition}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/cancel [post]
func (h *RequisitionHandler) Cancel(c *gin.Context) {
	requisition, err := h.requisitionService.Cancel(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}
