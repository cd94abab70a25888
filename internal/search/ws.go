package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// emptyArrayJSON is the degraded response written whenever the encoder
// fails.
var emptyArrayJSON = []byte("[]")

// Encoder turns one request's merged results into the wire envelope; it is
// supplied by the HTTP layer so the WebSocket form reuses exactly the same
// field-shaping logic (send_score / send_hidden_fields) as the regular
// GET /api/busca handler — one encoder, no transport-specific special case
// (see DESIGN.md).
type Encoder func(ctx context.Context, query string) ([]byte, error)

// ServeWS implements GET /api/busca/ws: each inbound text frame is treated
// as a new query; the orchestrator's fan-out runs for it and the encoded
// result is written back as a text frame, in arrival order. The connection
// is accepted without an origin check and closed via CloseNow on exit.
func ServeWS(encode Encoder, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}

			reply, err := encode(ctx, string(data))
			if err != nil {
				reply = emptyArrayJSON
			}

			if err := conn.Write(ctx, websocket.MessageText, reply); err != nil {
				return
			}
		}
	}
}
