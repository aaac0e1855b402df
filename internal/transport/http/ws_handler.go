package http

import (
	"context"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

// Stream serves a room's live event stream over WebSocket, mirroring the SSE
// endpoint with one JSON frame per event.
// GET /:room/ws
func (h *RoomHandlers) Stream(c *gin.Context) {
	room := h.registry.Get(c.Param("room"))

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("room", room.Name()).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	events, cancel := room.Subscribe()
	defer cancel()

	ctx, cancelCtx := context.WithCancel(c.Request.Context())
	defer cancelCtx()

	// Inbound frames carry nothing; the read loop only notices the peer
	// going away so the write loop can stop.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				cancelCtx()
				return
			}
		}
	}()

	if err := wsjson.Write(ctx, conn, Frame{Event: eventInitialHistory, Data: historyDTO(room.HistoryExcludingLatest())}); err != nil {
		return
	}

	keepAlive := h.clock.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "closing")
			return
		case ev := <-events:
			name, data := eventPayload(ev)
			if err := wsjson.Write(ctx, conn, Frame{Event: name, Data: data}); err != nil {
				h.log.Warn().Err(err).Str("room", room.Name()).Msg("write ws event")
				return
			}
		case <-keepAlive.Chan():
			if err := wsjson.Write(ctx, conn, Frame{Event: eventKeepAlive, Data: gin.H{}}); err != nil {
				return
			}
		}
	}
}
