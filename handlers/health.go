package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports liveness of the service and its backing stores.
type HealthHandler struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(mc *mongo.Client, rc *redis.Client) *HealthHandler {
	return &HealthHandler{Mongo: mc, Redis: rc}
}

// CheckHandler pings MongoDB and Redis and reports per-store status.
func (hh *HealthHandler) CheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	overall := "healthy"
	status := http.StatusOK
	mongoStatus := "ok"
	redisStatus := "ok"

	if err := hh.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		mongoStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}
	if err := hh.Redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": overall,
		"mongo":  mongoStatus,
		"redis":  redisStatus,
	})
}
