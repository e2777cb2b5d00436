package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/symcycle/internal/anim"
)

func (s *Server) handleGetState(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   newStateResponse(s.src.Snapshot()),
	})
}

// handleStream pushes every published snapshot as a server-sent "state"
// event, starting with the current one. Slow clients only see the latest.
func (s *Server) handleStream(c *gin.Context) {
	ch, cancel := s.src.Subscribe()
	defer cancel()

	skipTicks := c.Query("ticks") == "false"
	s.log.Debug("stream opened", "remote", c.ClientIP(), "skip_ticks", skipTicks)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("state", newStateResponse(s.src.Snapshot()))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		for {
			select {
			case <-ctx.Done():
				return false
			case st, ok := <-ch:
				if !ok {
					return false
				}
				if skipTicks && st.Event == anim.EventTick {
					continue
				}
				c.SSEvent("state", newStateResponse(st))
				return true
			}
		}
	})

	s.log.Debug("stream closed", "remote", c.ClientIP())
}

func (s *Server) handleGetSymbols(c *gin.Context) {
	symbols := anim.Catalog()
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: SymbolsResponse{
			Symbols: symbols,
			Total:   len(symbols),
		},
	})
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	now := s.now()
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: HealthResponse{
			Status:    "healthy",
			Version:   s.version,
			Uptime:    now.Sub(s.startTime).Round(time.Millisecond).String(),
			Running:   s.src.Snapshot().Running,
			Timestamp: now,
		},
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ApiResponse{
		Status: "error",
		Error:  "route not found: " + c.Request.URL.Path,
	})
}
