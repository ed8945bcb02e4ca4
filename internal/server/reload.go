package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// reloadHub fans out build notifications to connected browsers over
// server-sent events.
type reloadHub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: make(map[chan string]struct{})}
}

func (h *reloadHub) subscribe() chan string {
	ch := make(chan string, 4)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *reloadHub) unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// broadcast notifies every client; slow clients drop the event instead of
// blocking a rebuild.
func (h *reloadHub) broadcast(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *reloadHub) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ch := h.subscribe()
		defer h.unsubscribe(ch)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		c.Writer.Flush()

		for {
			select {
			case <-c.Request.Context().Done():
				return
			case msg := <-ch:
				fmt.Fprintf(c.Writer, "event: build\ndata: %s\n\n", msg)
				c.Writer.Flush()
			}
		}
	}
}
