package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/port"
	qport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/queue/port"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	httpHandler "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, cache cacheport.Cache, client qport.Client, router *realtime.Router, log zerolog.Logger) {
	v1 := r.Group("/api/v1")
	// Pass the DB connection, cache, queue client and realtime router down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, cache, client, router, log)
}
