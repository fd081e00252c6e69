package payrollhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"paycalc/internal/domain/payroll"
	"paycalc/internal/requestctx"
	"paycalc/internal/transport/http/api"
)

const liveWriteTimeout = 5 * time.Second

// liveFrame is one calculation request on the live socket. ID is echoed back
// as the envelope requestId so clients can drop stale answers.
type liveFrame struct {
	ID string `json:"id"`
	payroll.Request
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	logger := requestctx.Logger(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("live upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.opts.WSMaxMessageBytes)

	if h.opts.Live != nil {
		h.opts.Live.LiveSessionOpened()
		defer h.opts.Live.LiveSessionClosed()
	}
	logger.Info("live session opened")

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Warn("live session read failed", "err", err)
			}
			logger.Info("live session closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		envelope := h.liveResult(r, raw)
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := conn.WriteJSON(envelope); err != nil {
			logger.Warn("live session write failed", "err", err)
			return
		}
	}
}

func (h *Handler) liveResult(r *http.Request, raw []byte) api.Envelope {
	var frame liveFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return api.Envelope{Error: &api.Error{Code: "invalid_payload", Message: "invalid request payload"}}
	}

	result, err := h.Service.Calculate(r.Context(), frame.Request)
	if err != nil {
		_, apiErr := calculationFailure(err)
		return api.Envelope{Error: apiErr, RequestID: frame.ID}
	}
	return api.Envelope{Success: true, Data: result.Rounded(), RequestID: frame.ID}
}
