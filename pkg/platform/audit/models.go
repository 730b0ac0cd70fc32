package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryGovernance covers owner actions that change sale terms or the
	// privileged identity. These need long retention.
	CategoryGovernance EventCategory = "governance"

	// CategorySecurity covers rejected or suspicious requests, for alerting.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine issuance activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the address that invoked the operation.
	ActorID string
	// Subject is the entity acted upon (recipient wallet, new owner, ...).
	Subject   string
	Action    string
	Stage     *int
	Quantity  uint64
	Amount    string
	Reason    string
	RequestID string
	ClientIP  string
	UserAgent string
}

type AuditEvent string

const (
	// Governance events
	EventStagesReplaced         AuditEvent = "stages_replaced"
	EventMintingToggled         AuditEvent = "minting_toggled"
	EventTransfersPaused        AuditEvent = "transfers_paused"
	EventTransfersUnpaused      AuditEvent = "transfers_unpaused"
	EventCosignerUpdated        AuditEvent = "cosigner_updated"
	EventSignatureExpiryUpdated AuditEvent = "signature_expiry_updated"
	EventWalletLimitUpdated     AuditEvent = "wallet_limit_updated"
	EventOwnershipTransferred   AuditEvent = "ownership_transferred"
	EventTreasuryWithdrawn      AuditEvent = "treasury_withdrawn"

	// Security events
	EventMintRejected     AuditEvent = "mint_rejected"
	EventAdminDenied      AuditEvent = "admin_denied"
	EventMintCompensated  AuditEvent = "mint_compensated"
	EventTransferRejected AuditEvent = "transfer_rejected"

	// Operations events
	EventTokensMinted AuditEvent = "tokens_minted"
	EventOwnerMinted  AuditEvent = "owner_minted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventStagesReplaced:         CategoryGovernance,
	EventMintingToggled:         CategoryGovernance,
	EventTransfersPaused:        CategoryGovernance,
	EventTransfersUnpaused:      CategoryGovernance,
	EventCosignerUpdated:        CategoryGovernance,
	EventSignatureExpiryUpdated: CategoryGovernance,
	EventWalletLimitUpdated:     CategoryGovernance,
	EventOwnershipTransferred:   CategoryGovernance,
	EventTreasuryWithdrawn:      CategoryGovernance,

	EventMintRejected:     CategorySecurity,
	EventAdminDenied:      CategorySecurity,
	EventMintCompensated:  CategorySecurity,
	EventTransferRejected: CategorySecurity,

	EventTokensMinted: CategoryOperations,
	EventOwnerMinted:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
