package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"teamhub.backend/internal/interfaces/http/handlers"
	"teamhub.backend/internal/interfaces/http/middleware"
	"teamhub.backend/pkg/metrics"
)

const (
	serviceName    = "teamhub-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	teamHandler       *handlers.TeamHandler
	membershipHandler *handlers.MembershipHandler
	authMiddleware    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, registry *prometheus.Registry) {
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.authMiddleware)
	{
		teams := v1.Group("/teams")
		{
			teams.POST("", middleware.IdempotencyMiddleware(), d.teamHandler.CreateTeam)
			teams.GET("", d.teamHandler.ListTeams)
			teams.GET("/:id", d.teamHandler.GetTeam)
			teams.PUT("/:id", d.teamHandler.UpdateTeam)
			teams.DELETE("/:id", d.teamHandler.DeactivateTeam)

			teams.POST("/:id/members", middleware.IdempotencyMiddleware(), d.membershipHandler.AddMember)
			teams.DELETE("/:id/members/:userId", d.membershipHandler.RemoveMember)
			teams.PUT("/:id/members/:userId/role", d.membershipHandler.ChangeRole)
		}
	}
}
