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

type WorkOrderHandler struct {
	workOrderService service.WorkOrderService
}

func NewWorkOrderHandler(workOrderService service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

func (h *WorkOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/work-orders")
	{
		orders.GET("", middleware.RequirePermission("work_orders.read"), h.List)
		orders.POST("", middleware.RequirePermission("work_orders.write"), h.Create)
		orders.GET("/:id", middleware.RequirePermission("work_orders.read"), h.Get)
		orders.PUT("/:id", middleware.RequirePermission("work_orders.write"), h.Update)
		orders.DELETE("/:id", middleware.RequireRole(model.RoleAdministrator, model.RoleCoordinator), h.Delete)
		orders.PATCH("/:id/status", middleware.RequirePermission("work_orders.status"), h.UpdateStatus)
		orders.GET("/:id/status-history", middleware.RequirePermission("work_orders.read"), h.StatusHistory)

		orders.POST("/:id/remarks", middleware.RequirePermission("work_orders.write"), h.AddRemark)
		orders.PUT("/:id/remarks/:remarkId", middleware.RequirePermission("work_orders.write"), h.UpdateRemark)
		orders.DELETE("/:id/remarks/:remarkId", middleware.RequirePermission("work_orders.write"), h.DeleteRemark)

		orders.POST("/:id/tasks", middleware.RequirePermission("work_orders.write"), h.AddTask)
		orders.PUT("/:id/tasks/:taskId", middleware.RequirePermission("work_orders.write"), h.UpdateTask)
		orders.DELETE("/:id/tasks/:taskId", middleware.RequirePermission("work_orders.write"), h.DeleteTask)

		orders.POST("/:id/issues", middleware.RequirePermission("work_orders.write"), h.AddIssue)
		orders.PUT("/:id/issues/:issueId", middleware.RequirePermission("work_orders.write"), h.UpdateIssue)
		orders.DELETE("/:id/issues/:issueId", middleware.RequirePermission("work_orders.write"), h.DeleteIssue)

		orders.POST("/:id/materials", middleware.RequirePermission("work_orders.write"), h.AssignMaterial)
		orders.PUT("/:id/materials/:assignmentId", middleware.RequirePermission("work_orders.write"), h.UpdateMaterialAssignment)
		orders.DELETE("/:id/materials/:assignmentId", middleware.RequirePermission("work_orders.write"), h.RemoveMaterialAssignment)

		orders.POST("/:id/expenses", middleware.RequirePermission("work_orders.write"), h.AddExpense)
	}
}

// List returns a paginated, filtered page of work order summaries
// @Summary      List work orders
// @Description  Retrieves a paginated list of work orders with derived progress and expense rollups
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Search in number, title and client"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.WorkOrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	orders, total, err := h.workOrderService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"work_orders": orders,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// Get returns one work order with all sub-records
// @Summary      Get work order
// @Description  Retrieves a single work order by ID including remarks, tasks, issues, materials and expenses
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c *gin.Context) {
	wo, err := h.workOrderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// Create opens a new work order
// @Summary      Create work order
// @Description  Creates a work order with a generated sequential work order number
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWorkOrderRequest  true  "Create Work Order Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// Update patches work order details
// @Summary      Update work order
// @Description  Applies a partial update to a work order's details; status changes are rejected here
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Work Order ID"
// @Param        payload  body      service.UpdateWorkOrderRequest  true  "Update Work Order Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [put]
func (h *WorkOrderHandler) Update(c *gin.Context) {
	var req service.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// Delete removes a work order
// @Summary      Delete work order
// @Description  Deletes a work order by ID
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	if err := h.workOrderService.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Work order deleted successfully"))
}

// UpdateStatus transitions a work order's lifecycle state
// @Summary      Update work order status
// @Description  Moves a work order to a new status when the transition table allows it; completed orders are stamped at 100%
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Work Order ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Status Change Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/work-orders/{id}/status [patch]
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.UpdateStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// StatusHistory lists the recorded status transitions of a work order
// @Summary      Get status history
// @Description  Retrieves the ordered status transition log for a work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response{data=[]model.StatusTransition}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/status-history [get]
func (h *WorkOrderHandler) StatusHistory(c *gin.Context) {
	history, err := h.workOrderService.StatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}

// AddRemark attaches a remark to a work order
// @Summary      Add remark
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Work Order ID"
// @Param        payload  body      service.RemarkRequest  true  "Remark Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/remarks [post]
func (h *WorkOrderHandler) AddRemark(c *gin.Context) {
	var req service.RemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.AddRemark(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// UpdateRemark edits a remark by id
// @Summary      Update remark
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id        path      string                 true  "Work Order ID"
// @Param        remarkId  path      string                 true  "Remark ID"
// @Param        payload   body      service.RemarkRequest  true  "Remark Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/remarks/{remarkId} [put]
func (h *WorkOrderHandler) UpdateRemark(c *gin.Context) {
	var req service.RemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.UpdateRemark(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("remarkId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// DeleteRemark removes a remark by id
// @Summary      Delete remark
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id        path      string  true  "Work Order ID"
// @Param        remarkId  path      string  true  "Remark ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/remarks/{remarkId} [delete]
func (h *WorkOrderHandler) DeleteRemark(c *gin.Context) {
	wo, err := h.workOrderService.DeleteRemark(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("remarkId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// AddTask schedules a task inside a work order
// @Summary      Add task
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Work Order ID"
// @Param        payload  body      service.TaskRequest  true  "Task Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/tasks [post]
func (h *WorkOrderHandler) AddTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.AddTask(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// UpdateTask edits a task by id
// @Summary      Update task
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Work Order ID"
// @Param        taskId   path      string               true  "Task ID"
// @Param        payload  body      service.TaskRequest  true  "Task Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/tasks/{taskId} [put]
func (h *WorkOrderHandler) UpdateTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.UpdateTask(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("taskId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// DeleteTask removes a task by id
// @Summary      Delete task
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true  "Work Order ID"
// @Param        taskId  path      string  true  "Task ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/tasks/{taskId} [delete]
func (h *WorkOrderHandler) DeleteTask(c *gin.Context) {
	wo, err := h.workOrderService.DeleteTask(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("taskId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// AddIssue reports an issue against a work order
// @Summary      Add issue
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Work Order ID"
// @Param        payload  body      service.IssueRequest  true  "Issue Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/issues [post]
func (h *WorkOrderHandler) AddIssue(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.AddIssue(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// UpdateIssue edits an issue by id; resolving stamps the resolution date
// @Summary      Update issue
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Work Order ID"
// @Param        issueId  path      string                true  "Issue ID"
// @Param        payload  body      service.IssueRequest  true  "Issue Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/issues/{issueId} [put]
func (h *WorkOrderHandler) UpdateIssue(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.UpdateIssue(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("issueId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// DeleteIssue removes an issue by id
// @Summary      Delete issue
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id       path      string  true  "Work Order ID"
// @Param        issueId  path      string  true  "Issue ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/issues/{issueId} [delete]
func (h *WorkOrderHandler) DeleteIssue(c *gin.Context) {
	wo, err := h.workOrderService.DeleteIssue(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("issueId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// AssignMaterial links a purchasable or receivable material to a work order
// @Summary      Assign material
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Work Order ID"
// @Param        payload  body      service.MaterialAssignmentRequest  true  "Material Assignment Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/materials [post]
func (h *WorkOrderHandler) AssignMaterial(c *gin.Context) {
	var req service.MaterialAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.AssignMaterial(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}

// UpdateMaterialAssignment edits a material assignment by id
// @Summary      Update material assignment
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                             true  "Work Order ID"
// @Param        assignmentId  path      string                             true  "Assignment ID"
// @Param        payload       body      service.MaterialAssignmentRequest  true  "Material Assignment Payload"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/materials/{assignmentId} [put]
func (h *WorkOrderHandler) UpdateMaterialAssignment(c *gin.Context) {
	var req service.MaterialAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.UpdateMaterialAssignment(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// RemoveMaterialAssignment detaches a material assignment by id
// @Summary      Remove material assignment
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id            path      string  true  "Work Order ID"
// @Param        assignmentId  path      string  true  "Assignment ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/materials/{assignmentId} [delete]
func (h *WorkOrderHandler) RemoveMaterialAssignment(c *gin.Context) {
	wo, err := h.workOrderService.RemoveMaterialAssignment(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("assignmentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wo))
}

// AddExpense books an expense against a work order
// @Summary      Add expense
// @Description  Books an expense and recomputes the category breakdown
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Work Order ID"
// @Param        payload  body      service.ExpenseRequest  true  "Expense Payload"
// @Success      201  {object}  response.Response{data=model.WorkOrder}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id}/expenses [post]
func (h *WorkOrderHandler) AddExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wo, err := h.workOrderService.AddExpense(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wo))
}
