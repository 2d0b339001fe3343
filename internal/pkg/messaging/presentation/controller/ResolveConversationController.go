package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	dirAdapter "github.com/Jaiparmar940/workly-sub000/internal/directory/adapter"
	cacheport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/port"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ResolveConversationController handles the resolve endpoint only (one
// controller per endpoint). It is the single UI entry point that accepts
// either a conversation id or a legacy message id.
type ResolveConversationController struct {
	UC  *usecase.ResolveConversationUseCase
	Dir *dirAdapter.PgDirectory
}

func NewResolveConversationController(pool *pgxpool.Pool, cache cacheport.Cache) *ResolveConversationController {
	repo := repoAdapter.NewPgMessagingRepository(pool)
	legacyRepo := repoAdapter.NewPgLegacyMessageRepository(pool)
	migrate := usecase.NewMigrateLegacyUseCase(repo, legacyRepo)
	return &ResolveConversationController{
		UC:  usecase.NewResolveConversationUseCase(repo, migrate, cache),
		Dir: dirAdapter.NewPgDirectory(pool),
	}
}

type resolveRequest struct {
	OpaqueID string `json:"opaque_id" binding:"required"`
}

func (h *ResolveConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}

		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Migration may replay a long history; allow more time than a plain read.
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.ResolveConversationInput{
			CallerID: caller,
			OpaqueID: req.OpaqueID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation": toConversationPayload(*out.Conversation, caller),
			"messages":     toMessagePayloads(out.Messages),
			"title":        h.title(ctx, out.Conversation, caller),
		})
	}
}

// title assembles a display heading: the job title for job-scoped
// conversations, otherwise the counterpart's name. Lookup failures degrade
// to an empty title; display data never blocks resolution.
func (h *ResolveConversationController) title(ctx context.Context, conv *messaging.Conversation, caller string) string {
	if conv.JobID != nil {
		if job, err := h.Dir.GetJob(ctx, *conv.JobID); err == nil {
			return job.Title
		}
	}
	for _, other := range conv.OtherParticipants(caller) {
		if u, err := h.Dir.GetUser(ctx, other); err == nil {
			return u.Name
		}
	}
	return ""
}
