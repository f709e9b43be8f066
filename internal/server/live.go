package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	"go.uber.org/zap"
)

const heartbeatInterval = 25 * time.Second

// LiveStream is the SSE endpoint. Subscribers get a billing snapshot on
// connect, then every committed event for their account until they hang up.
func (s *Server) LiveStream(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ch, cancel := s.hub.Subscribe(account.ID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	if state, err := s.billing.GetState(c.Request.Context()); err == nil {
		snapshot := events.Message{
			Type: "billing.snapshot",
			Payload: events.BillingStatePayload{
				AccountID:     state.AccountID.String(),
				Balance:       state.Balance,
				WalletBalance: state.WalletBalance,
				DueDate:       state.DueDate.UTC().Format(time.RFC3339),
				Currency:      state.Currency,
			}.ToMap(),
			Timestamp: s.clock.Now(),
		}
		s.writeEvent(c, snapshot)
	} else {
		s.log.Warn("live snapshot failed", zap.Error(err))
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			s.writeEvent(c, msg)
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		}
	}
}

func (s *Server) writeEvent(c *gin.Context, msg events.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Warn("live event marshal failed", zap.Error(err))
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Type, data)
	c.Writer.Flush()
}
