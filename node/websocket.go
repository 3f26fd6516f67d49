package node

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

const (
	closeReasonMaxBytes = 125
	wsReadLimit         = 4096
	wsWriteTimeout      = 5 * time.Second
)

// stream classifies every text message received on the connection as an
// address and answers with its report, in order.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.log.Errorw("Failed to upgrade connection", "err", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)
	ctx := r.Context()
	connID := uuid.NewString()
	h.log.Debugw("Websocket connection opened", "conn", connID, "remote", r.RemoteAddr)

	for {
		var (
			msgType websocket.MessageType
			data    []byte
		)
		msgType, data, err = conn.Read(ctx)
		if err != nil {
			break
		}
		if msgType != websocket.MessageText {
			if err = conn.Close(websocket.StatusUnsupportedData, "addresses are sent as text"); err != nil {
				h.log.Debugw("Failed to close websocket connection", "conn", connID, "err", err)
			}
			return
		}

		var reply any
		var result checker.Result
		doErr := h.throttler.Do(ctx, func(c *checker.Checker) error {
			result = c.Classify(ctx, strings.TrimSpace(string(data)))
			return nil
		})
		if doErr != nil {
			reply = errorResponse{Error: doErr.Error()}
		} else {
			reply = result.Report()
		}
		if err = h.writeMessage(ctx, conn, reply); err != nil {
			break
		}
	}

	if status := websocket.CloseStatus(err); status != -1 {
		h.log.Debugw("Client closed websocket connection", "conn", connID, "status", status)
		return
	}

	h.log.Debugw("Closing websocket connection", "conn", connID, "err", err)
	if err = conn.Close(websocket.StatusInternalError, closeReason(err.Error())); err != nil {
		h.log.Debugw("Failed to close websocket connection", "conn", connID, "err", err)
	}
}

// closeReason trims reason to fit a close frame without splitting a rune.
func closeReason(reason string) string {
	if len(reason) <= closeReasonMaxBytes {
		return reason
	}
	end := closeReasonMaxBytes
	for end > 0 && !utf8.RuneStart(reason[end]) {
		end--
	}
	return reason[:end]
}

func (h *Handler) writeMessage(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}

// originHosts turns CORS origins into the host patterns websocket.Accept
// matches the Origin header against.
func originHosts(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}
