package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/store"
	"backend/pkg/response"
)

// respondError maps service-layer errors onto HTTP statuses: missing records
// are 404, rejected lifecycle transitions are 409, bad input is 400 and
// anything else is a 500.
func respondError(c *gin.Context, err error) {
	var transitionErr *model.InvalidTransitionError
	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Resource not found"))
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, transitionErr.Error()))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validationErr.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
