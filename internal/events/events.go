package events

// Event types emitted through the outbox and the live hub.
const (
	EventPaymentApplied      = "payment.applied"
	EventWalletTopup         = "wallet.topup"
	EventStkPushResolved     = "payment.stk_resolved"
	EventNotificationCreated = "notification.created"
	EventTicketSubmitted     = "ticket.submitted"
)

// BillingStatePayload mirrors the committed billing state for subscribers.
type BillingStatePayload struct {
	AccountID     string `json:"account_id"`
	Balance       int64  `json:"balance"`
	WalletBalance int64  `json:"wallet_balance"`
	DueDate       string `json:"due_date"`
	Currency      string `json:"currency"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p BillingStatePayload) ToMap() map[string]any {
	return map[string]any{
		"account_id":     p.AccountID,
		"balance":        p.Balance,
		"wallet_balance": p.WalletBalance,
		"due_date":       p.DueDate,
		"currency":       p.Currency,
	}
}
