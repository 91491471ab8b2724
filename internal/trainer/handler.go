package trainer

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

// @Summary      Register a trainer
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Param        request body trainer.RegisterTrainerRequest true "Trainer payload"
// @Success      201 {object} trainer.Trainer
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterTrainerRequest
	if !api.BindJSON(c, &req) {
		return
	}

	trainer, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trainer)
}

// @Summary      Get a trainer
// @Tags         trainers
// @Produce      json
// @Param        code path string true "Trainer code"
// @Success      200 {object} trainer.Trainer
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{code} [get]
func (h *Handler) Get(c *gin.Context) {
	trainer, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trainer)
}

// @Summary      Delete a trainer
// @Description  Activities the trainer led stay scheduled without a trainer.
// @Tags         trainers
// @Produce      json
// @Param        code path string true "Trainer code"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers/{code} [delete]
func (h *Handler) Delete(c *gin.Context) {
	code := c.Param("code")
	if err := h.service.Delete(c.Request.Context(), code); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "trainer " + code + " deleted"})
}
