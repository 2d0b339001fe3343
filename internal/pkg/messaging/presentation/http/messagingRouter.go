package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/port"
	qport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/queue/port"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/presentation/controller"
)

// RegisterRoutes registers messaging HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, client qport.Client, router *realtime.Router, log zerolog.Logger) {
	resolveCtl := controller.NewResolveConversationController(pool, cache)
	listCtl := controller.NewListConversationsController(pool)
	sendCtl := controller.NewSendMessageController(pool, router)
	getCtl := controller.NewGetMessagesController(pool, client, log)
	readCtl := controller.NewMarkAllReadController(pool)
	socketCtl := controller.NewConversationSocketController(pool, router)

	// POST /api/v1/conversations/resolve -> open by conversation or legacy id
	g.POST("/conversations/resolve", resolveCtl.Handle())

	// GET /api/v1/conversations -> the caller's inbox
	g.GET("/conversations", listCtl.Handle())

	// POST /api/v1/conversations/:conversationId/messages -> send a message
	g.POST("/conversations/:conversationId/messages", sendCtl.Handle())

	// GET /api/v1/conversations/:conversationId/messages -> fetch a page
	g.GET("/conversations/:conversationId/messages", getCtl.Handle())

	// POST /api/v1/conversations/:conversationId/read -> mark everything read
	g.POST("/conversations/:conversationId/read", readCtl.Handle())

	// GET /api/v1/conversations/ws -> websocket endpoint for realtime traffic
	g.GET("/conversations/ws", socketCtl.Handle())
}
