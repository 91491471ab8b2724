package client

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymroster/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a client
// @Description  Number is generated when omitted. Dates use dd/mm/yyyy.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body client.RegisterClientRequest true "Client payload"
// @Success      201 {object} client.Client
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterClientRequest
	if !api.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        number path string true "Client number"
// @Success      200 {object} client.Client
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{number} [get]
func (h *Handler) Get(c *gin.Context) {
	client, err := h.service.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary      Update a client
// @Description  Replaces the client's details. An empty start_date keeps the stored one.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        number  path string true "Client number"
// @Param        request body client.RegisterClientRequest true "Client payload"
// @Success      200 {object} client.Client
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{number} [put]
func (h *Handler) Update(c *gin.Context) {
	var req RegisterClientRequest
	if !api.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Update(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary      Delete a client
// @Description  Removes the client and every enrollment it holds.
// @Tags         clients
// @Produce      json
// @Param        number path string true "Client number"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{number} [delete]
func (h *Handler) Delete(c *gin.Context) {
	number := c.Param("number")
	if err := h.service.Delete(c.Request.Context(), number); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "client " + number + " deleted"})
}
