package http

import (
	"github.com/gin-gonic/gin"
)

// Events serves a room's live event stream over SSE. The client first
// receives the backlog (history minus the latest entry), then the replayed
// latest timer and goal state, then every subsequent event in order, with
// keep-alive pulses in between.
// GET /:room/events
func (h *RoomHandlers) Events(c *gin.Context) {
	room := h.registry.Get(c.Param("room"))

	events, cancel := room.Subscribe()
	defer cancel()

	setStreamHeaders(c)
	c.SSEvent(eventInitialHistory, historyDTO(room.HistoryExcludingLatest()))
	c.Writer.Flush()

	keepAlive := h.clock.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			name, data := eventPayload(ev)
			c.SSEvent(name, data)
			c.Writer.Flush()
		case <-keepAlive.Chan():
			c.SSEvent(eventKeepAlive, gin.H{})
			c.Writer.Flush()
		}
	}
}

// setStreamHeaders disables caching and proxy buffering for event streams.
func setStreamHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Connection", "keep-alive")
}
