package events

import (
	"time"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCreditDebited    EventType = "credit_debited"
	EventCreditAllocated  EventType = "credit_allocated"
	EventUserDeactivated  EventType = "user_deactivated"
	EventLowBalanceWarned EventType = "low_balance_warned"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CreditDebitedPayload payload.
type CreditDebitedPayload struct {
	TransactionID string      `json:"transaction_id"`
	BeneficiaryID string      `json:"beneficiary_id"`
	Amount        money.Cents `json:"amount"`
}

// CreditAllocatedPayload payload.
type CreditAllocatedPayload struct {
	AllocationID    string      `json:"allocation_id"`
	AccountHolderID string      `json:"account_holder_id"`
	Amount          money.Cents `json:"amount"`
	Beneficiaries   int         `json:"beneficiaries"`
}

// UserDeactivatedPayload payload.
type UserDeactivatedPayload struct {
	UserID string `json:"user_id"`
}

// LowBalanceWarnedPayload payload.
type LowBalanceWarnedPayload struct {
	BeneficiaryID string      `json:"beneficiary_id"`
	Balance       money.Cents `json:"balance"`
}
