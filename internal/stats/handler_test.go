package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymroster/internal/activity"
	"gymroster/internal/client"
	"gymroster/internal/db/dbtest"
)

func TestHandler_ActivityStatistics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	members := new(MockMembers)
	members.On("MembersOf", mock.Anything, "AC01").Return([]client.Client{
		{Number: "S001", BirthDate: "01/01/1994", Category: client.CategoryC},
	}, nil)
	members.On("MembersOf", mock.Anything, "AC02").Return(nil, errors.New("connection lost"))
	activities := stubActivities{byCode: map[string]*activity.Activity{
		"AC01": {Code: "AC01", Price: 50},
		"AC02": {Code: "AC02", Price: 50},
	}}

	h := NewHandler(NewAggregator(activities, members, dbtest.NopTx{}))
	r := gin.New()
	r.GET("/activities/:code/statistics", h.ActivityStatistics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities/AC01/statistics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var s Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 1, s.EnrolledCount)
	assert.Equal(t, 40.0, s.TotalRevenue)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities/AC99/statistics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities/AC02/statistics", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
