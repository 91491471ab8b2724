package enrollment

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

// @Summary      Enroll a client
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body enrollment.EnrollRequest true "Enrollment"
// @Success      201 {object} enrollment.Enrollment
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /enrollments [post]
func (h *Handler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if !api.BindJSON(c, &req) {
		return
	}

	e, err := h.service.Enroll(c.Request.Context(), req.ClientNumber, req.ActivityCode)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

// @Summary      Unenroll a client
// @Tags         enrollments
// @Produce      json
// @Param        activity path string true "Activity code"
// @Param        client   path string true "Client number"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /enrollments/{activity}/{client} [delete]
func (h *Handler) Unenroll(c *gin.Context) {
	clientNumber, activityCode := c.Param("client"), c.Param("activity")
	if err := h.service.Unenroll(c.Request.Context(), clientNumber, activityCode); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "client " + clientNumber + " left " + activityCode})
}

// @Summary      Move a client between activities
// @Description  Atomic: either both the removal and the insertion happen or neither does. Same source and target is reported as a no-op.
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body enrollment.ReassignRequest true "Reassignment"
// @Success      200 {object} enrollment.Enrollment
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /enrollments/reassign [post]
func (h *Handler) Reassign(c *gin.Context) {
	var req ReassignRequest
	if !api.BindJSON(c, &req) {
		return
	}

	e, err := h.service.Reassign(c.Request.Context(), req.ClientNumber, req.FromActivityCode, req.ToActivityCode)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// @Summary      List enrollments
// @Tags         enrollments
// @Produce      json
// @Success      200 {array} enrollment.Detail
// @Failure      500 {object} api.ErrorResponse
// @Router       /enrollments [get]
func (h *Handler) List(c *gin.Context) {
	details, err := h.service.ListEnrollments(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// @Summary      Activities of a client
// @Tags         clients
// @Produce      json
// @Param        number path string true "Client number"
// @Success      200 {array} activity.Activity
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{number}/activities [get]
func (h *Handler) ClientActivities(c *gin.Context) {
	activities, err := h.service.ActivitiesForClient(c.Request.Context(), c.Param("number"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// @Summary      Members of an activity
// @Tags         activities
// @Produce      json
// @Param        code path string true "Activity code"
// @Success      200 {array} client.Client
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities/{code}/members [get]
func (h *Handler) ActivityMembers(c *gin.Context) {
	members, err := h.service.MembersOfActivity(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
