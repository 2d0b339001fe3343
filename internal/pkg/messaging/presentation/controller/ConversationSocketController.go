package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ConversationSocketController handles the websocket endpoint for realtime
// messaging traffic.
type ConversationSocketController struct {
	router          *realtime.Router
	sendMessageUC   *usecase.SendMessageUseCase
	joinRoomUC      *usecase.JoinConversationUseCase
	inflightTimeout time.Duration
}

func NewConversationSocketController(pool *pgxpool.Pool, router *realtime.Router) *ConversationSocketController {
	repo := repoAdapter.NewPgMessagingRepository(pool)
	sendUC := usecase.NewSendMessageUseCase(repo)
	sendUC.Notifier = NewRealtimeNotifier(router)
	return &ConversationSocketController{
		router:          router,
		sendMessageUC:   sendUC,
		joinRoomUC:      usecase.NewJoinConversationUseCase(repo),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	MsgType        *int16 `json:"msg_type,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type outboundMessage struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id"`
	Message        messagePayload `json:"message"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *ConversationSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, userID, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ConversationSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinRoomUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: frame.ConversationID,
		UserID:         conn.UserID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.router.Join(frame.ConversationID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "joined", ConversationID: frame.ConversationID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ConversationSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}
	ctl.router.Leave(frame.ConversationID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "left", ConversationID: frame.ConversationID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ConversationSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	msgType := messaging.MessageTypeText
	if frame.MsgType != nil {
		msgType = messaging.MessageType(*frame.MsgType)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	result, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       userID,
		Content:        frame.Content,
		MsgType:        msgType,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Room members already got the broadcast through the notifier; echo the
	// accepted message back to the sender as their ack.
	out := outboundMessage{
		Type:           "message",
		ConversationID: frame.ConversationID,
		Message:        toMessagePayload(*result),
	}
	if payload, err := json.Marshal(out); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ConversationSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, messaging.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this conversation")
	case errors.Is(err, messaging.ErrPartialFanout):
		ctl.replyError(conn, "partial_fanout", "message failed on one or more replicas; retry")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ConversationSocketController) replyError(conn *realtime.Connection, code, msg string) {
	frame := errorFrame{Type: "error", Code: code, Error: msg}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
