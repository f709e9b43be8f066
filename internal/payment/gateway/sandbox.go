package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
)

// ProviderSandbox is the simulation boundary: no real mobile money request
// leaves the process.
const ProviderSandbox = "sandbox"

// Sandbox resolves every push as successful after a fixed delay.
type Sandbox struct {
	delay time.Duration
}

func NewSandbox(delay time.Duration) *Sandbox {
	if delay < 0 {
		delay = 0
	}
	return &Sandbox{delay: delay}
}

func (s *Sandbox) Provider() string { return ProviderSandbox }

// Push waits the configured delay and resolves successfully. The timer is not
// cut short by request cancellation: once issued, a push runs to completion.
func (s *Sandbox) Push(_ context.Context, req paymentdomain.PushRequest) (paymentdomain.PushResult, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		<-timer.C
	}

	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return paymentdomain.PushResult{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "KES"
	}
	return paymentdomain.PushResult{
		Success:    true,
		Message:    fmt.Sprintf("STK push sent to %s. Confirm the prompt to pay %s %d.", req.Phone, currency, req.Amount),
		CheckoutID: "ws_CO_" + hex.EncodeToString(raw),
	}, nil
}
