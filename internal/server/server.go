package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymroster/internal/activity"
	"gymroster/internal/client"
	"gymroster/internal/config"
	"gymroster/internal/enrollment"
	"gymroster/internal/stats"
	"gymroster/internal/trainer"
)

type Handlers struct {
	Clients     *client.Handler
	Trainers    *trainer.Handler
	Activities  *activity.Handler
	Enrollments *enrollment.Handler
	Stats       *stats.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	stop   context.CancelFunc
}

func New(cfg *config.Config, h Handlers) *Server {
	background, stop := context.WithCancel(context.Background())

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		TracingMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(background, cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	clients := router.Group("/clients")
	{
		clients.POST("", h.Clients.Register)
		clients.GET("/:number", h.Clients.Get)
		clients.PUT("/:number", h.Clients.Update)
		clients.DELETE("/:number", h.Clients.Delete)
		clients.GET("/:number/activities", h.Enrollments.ClientActivities)
	}

	trainers := router.Group("/trainers")
	{
		trainers.POST("", h.Trainers.Register)
		trainers.GET("/:code", h.Trainers.Get)
		trainers.DELETE("/:code", h.Trainers.Delete)
		trainers.GET("/:code/occupancy", h.Activities.Occupancy)
	}

	activities := router.Group("/activities")
	{
		activities.POST("", h.Activities.Create)
		activities.GET("", h.Activities.List)
		activities.GET("/:code", h.Activities.Get)
		activities.PUT("/:code", h.Activities.Update)
		activities.DELETE("/:code", h.Activities.Delete)
		activities.GET("/:code/members", h.Enrollments.ActivityMembers)
		activities.GET("/:code/statistics", h.Stats.ActivityStatistics)
	}

	enrollments := router.Group("/enrollments")
	{
		enrollments.GET("", h.Enrollments.List)
		enrollments.POST("", h.Enrollments.Enroll)
		enrollments.POST("/reassign", h.Enrollments.Reassign)
		enrollments.DELETE("/:activity/:client", h.Enrollments.Unenroll)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		stop: stop,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful Shutdown returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown stops background middleware work and then drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.http.Shutdown(ctx)
}
