package game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	"github.com/gokatarajesh/quiz-live/internal/server"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

const presenceTimeout = 2 * time.Second

// Presence records which users hold a live socket on a session channel.
type Presence interface {
	Join(ctx context.Context, channel string, userID int64) error
	Leave(ctx context.Context, channel string, userID int64) error
}

// Handler manages session WebSocket connections and routes client actions.
type Handler struct {
	service  *Service
	hub      *ws.Hub
	presence Presence
	logger   zerolog.Logger
}

// NewHandler creates a session WebSocket handler.
func NewHandler(service *Service, hub *ws.Hub, presence Presence, logger zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		hub:      hub,
		presence: presence,
		logger:   logger.With().Str("component", "game_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/sessions/{code}. The caller must already
// be authenticated by the auth middleware.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}
	code := r.PathValue("code")
	if _, err := h.service.Snapshot(code); err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, code, Caller{ID: claims.UserID, Username: claims.Username})
}

// HandleConnection subscribes the socket to the session channel and serves
// client actions until the peer disconnects. The snapshot is taken after
// subscribing so no event falls between the two.
func (h *Handler) HandleConnection(conn *websocket.Conn, code string, caller Caller) {
	channel := ChannelFor(code)
	wsConn := ws.NewConnection(conn, caller.ID, h.logger)
	h.hub.Register(wsConn)
	h.hub.Subscribe(channel, wsConn.ID)
	h.presenceCall(h.presence.Join, channel, caller.ID)

	go wsConn.WritePump()

	h.sendSnapshot(wsConn, code)

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), wsConn.ID, code, caller, msg)
	})

	h.presenceCall(h.presence.Leave, channel, caller.ID)
	h.hub.Unregister(wsConn.ID)
}

func (h *Handler) sendSnapshot(conn *ws.Connection, code string) {
	snap, err := h.service.Snapshot(code)
	if err != nil {
		if sendErr := h.sendError(conn.ID, "", httperrors.ErrCodeSessionNotFound, "Session not found"); sendErr != nil {
			h.logger.Warn().Err(sendErr).Str("session", code).Msg("failed to send error")
		}
		return
	}
	msg, err := ws.NewMessage(ws.TypeSnapshot, snap)
	if err != nil {
		h.logger.Error().Err(err).Str("session", code).Msg("failed to encode snapshot")
		return
	}
	if err := conn.Send(msg); err != nil {
		h.logger.Warn().Err(err).Str("session", code).Msg("failed to send snapshot")
	}
}

func (h *Handler) presenceCall(fn func(context.Context, string, int64) error, channel string, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := fn(ctx, channel, userID); err != nil {
		h.logger.Warn().Err(err).Str("channel", channel).Int64("user_id", userID).Msg("presence update failed")
	}
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(ctx context.Context, connID uuid.UUID, code string, caller Caller, msg ws.Message) error {
	var (
		result any
		err    error
	)
	switch msg.Type {
	case ws.TypePing:
		return h.reply(connID, ws.TypePong, msg.RequestID, nil)
	case ws.TypeJoinSession:
		result, err = h.service.JoinSession(ctx, code, caller)
	case ws.TypeLeaveSession:
		var left bool
		left, err = h.service.LeaveSession(ctx, code, caller.ID)
		result = map[string]bool{"left": left}
	case ws.TypeStartSession:
		err = h.service.StartSession(ctx, code, caller.ID)
	case ws.TypeSubmitAnswer:
		var req ws.SubmitAnswerPayload
		if jsonErr := json.Unmarshal(msg.Payload, &req); jsonErr != nil {
			return h.sendError(connID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
		}
		err = h.service.SubmitAnswer(ctx, code, caller.ID, req.AnswerID)
	default:
		return h.sendError(connID, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}

	if err != nil {
		_, errCode := ErrorStatus(err)
		return h.sendError(connID, msg.RequestID, errCode, err.Error())
	}
	return h.reply(connID, ws.TypeAck, msg.RequestID, ws.AckPayload{Action: msg.Type, Result: result})
}

func (h *Handler) reply(connID uuid.UUID, msgType, requestID string, payload any) error {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return h.hub.SendTo(connID, msg)
}

func (h *Handler) sendError(connID uuid.UUID, requestID, code, message string) error {
	return h.reply(connID, ws.TypeError, requestID, ws.ErrorPayload{Code: code, Message: message})
}
