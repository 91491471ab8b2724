package activity

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gymroster/internal/api"
)

type Handler struct {
	service Service
	checker ScheduleChecker
}

func NewHandler(service Service, checker ScheduleChecker) *Handler {
	return &Handler{
		service: service,
		checker: checker,
	}
}

type OccupancyResponse struct {
	TrainerCode string `json:"trainer_code" example:"T001"`
	Weekday     string `json:"weekday" example:"Monday"`
	Hour        int    `json:"hour" example:"18"`
	Occupied    bool   `json:"occupied"`
}

// @Summary      Create an activity
// @Description  Fails with 409 when the trainer already leads another activity at the same weekday and hour.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        request body activity.SaveActivityRequest true "Activity payload"
// @Success      201 {object} activity.Activity
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities [post]
func (h *Handler) Create(c *gin.Context) {
	var req SaveActivityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	activity, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// @Summary      Update an activity
// @Description  The activity's own slot never counts as a conflict.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        code    path string                       true "Activity code"
// @Param        request body activity.SaveActivityRequest true "Activity payload"
// @Success      200 {object} activity.Activity
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities/{code} [put]
func (h *Handler) Update(c *gin.Context) {
	var req SaveActivityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	activity, err := h.service.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// @Summary      Get an activity
// @Tags         activities
// @Produce      json
// @Param        code path string true "Activity code"
// @Success      200 {object} activity.Activity
// @Failure      404 {object} api.ErrorResponse
// @Router       /activities/{code} [get]
func (h *Handler) Get(c *gin.Context) {
	activity, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Success      200 {array} activity.Activity
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities [get]
func (h *Handler) List(c *gin.Context) {
	activities, err := h.service.List(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// @Summary      Delete an activity
// @Description  Removes the activity and all of its enrollments.
// @Tags         activities
// @Produce      json
// @Param        code path string true "Activity code"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /activities/{code} [delete]
func (h *Handler) Delete(c *gin.Context) {
	code := c.Param("code")
	if err := h.service.Delete(c.Request.Context(), code); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "activity " + code + " deleted"})
}

// @Summary      Trainer slot occupancy
// @Description  Reports whether the trainer already leads an activity at day and hour, ignoring the activity named by exclude.
// @Tags         trainers
// @Produce      json
// @Param        code    path  string true  "Trainer code"
// @Param        day     query string true  "Weekday"
// @Param        hour    query int    true  "Hour (0-23)"
// @Param        exclude query string false "Activity code to ignore"
// @Success      200 {object} activity.OccupancyResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{code}/occupancy [get]
func (h *Handler) Occupancy(c *gin.Context) {
	hour, err := strconv.Atoi(c.Query("hour"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "hour must be an integer"})
		return
	}

	day, err := ParseWeekday(c.Query("day"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	trainerCode := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	occupied, err := h.checker.IsOccupied(c.Request.Context(), trainerCode, string(day), hour, c.Query("exclude"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OccupancyResponse{
		TrainerCode: trainerCode,
		Weekday:     string(day),
		Hour:        hour,
		Occupied:    occupied,
	})
}
