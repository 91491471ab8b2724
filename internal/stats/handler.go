package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymroster/internal/api"
)

type Handler struct {
	aggregator Aggregator
}

func NewHandler(aggregator Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// @Summary      Activity statistics
// @Description  Enrollment count, average age, dominant category and discounted revenue of one activity.
// @Tags         activities
// @Produce      json
// @Param        code path string true "Activity code"
// @Success      200 {object} stats.Stats
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities/{code}/statistics [get]
func (h *Handler) ActivityStatistics(c *gin.Context) {
	s, err := h.aggregator.ComputeActivityStatistics(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
