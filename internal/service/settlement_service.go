package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/storage"
)

// SettlementService implements the settlement confirmation workflow. The
// recalculation engine only ever creates pending records; every transition
// away from (and back to) pending happens here, driven by the payer and
// the receiver.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a SettlementService with the given storage
// backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Initiate marks a settlement as paid by the payer, attaching payment
// details and moving it to awaiting_confirmation. Only the payer may
// initiate, and a settled record can never be reopened. Re-initiating an
// awaiting_confirmation record is allowed so the payer can correct the
// payment reference.
func (s *SettlementService) Initiate(ctx context.Context, actorID, settlementID, paymentMethod, referenceID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.FromUser != actorID {
		return nil, ErrForbidden
	}
	if settlement.Status == models.StatusSettled {
		return nil, ErrInvalidStatus
	}

	settlement.PaymentMethod = paymentMethod
	settlement.ReferenceID = referenceID
	settlement.Status = models.StatusAwaitingConfirmation

	if err := s.store.UpdateSettlementStatus(ctx, settlement); err != nil {
		slog.Error("Initiate settlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}

	slog.Info("Settlement initiated",
		"settlement_id", settlement.ID,
		"from_user", settlement.FromUser,
		"to_user", settlement.ToUser,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// Cancel reverts an awaiting_confirmation settlement back to pending and
// clears its payment details. Only the payer may cancel.
func (s *SettlementService) Cancel(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.FromUser != actorID {
		return nil, ErrForbidden
	}
	if settlement.Status != models.StatusAwaitingConfirmation {
		return nil, ErrInvalidStatus
	}

	settlement.Status = models.StatusPending
	settlement.PaymentMethod = ""
	settlement.ReferenceID = ""

	if err := s.store.UpdateSettlementStatus(ctx, settlement); err != nil {
		slog.Error("Cancel settlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}

	slog.Info("Settlement cancelled", "settlement_id", settlement.ID)
	return settlement, nil
}

// Resolve is the receiver's verdict on an awaiting_confirmation
// settlement: confirmed settlements become settled (terminal), rejected
// ones drop back to pending with payment details cleared.
func (s *SettlementService) Resolve(ctx context.Context, actorID, settlementID string, confirm bool) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ToUser != actorID {
		return nil, ErrForbidden
	}
	if settlement.Status != models.StatusAwaitingConfirmation {
		return nil, ErrInvalidStatus
	}

	if confirm {
		settlement.Status = models.StatusSettled
	} else {
		settlement.Status = models.StatusPending
		settlement.PaymentMethod = ""
		settlement.ReferenceID = ""
	}

	if err := s.store.UpdateSettlementStatus(ctx, settlement); err != nil {
		slog.Error("Resolve settlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}

	slog.Info("Settlement resolved",
		"settlement_id", settlement.ID,
		"confirmed", confirm,
		"status", settlement.Status,
	)
	return settlement, nil
}

// SettlementParty identifies one side of a settlement in API responses.
type SettlementParty struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsYou bool   `json:"is_you"`
}

// SettlementEntry is one settlement as presented to a group member.
type SettlementEntry struct {
	ID            string                  `json:"id"`
	From          SettlementParty         `json:"from"`
	To            SettlementParty         `json:"to"`
	Amount        decimal.Decimal         `json:"amount"`
	Status        models.SettlementStatus `json:"status"`
	DisplayStatus string                  `json:"display_status"`
	PaymentMethod string                  `json:"payment_method,omitempty"`
	ReferenceID   string                  `json:"reference_id,omitempty"`
	Date          string                  `json:"date"`
	CreatedAt     int64                   `json:"created_at"`
	UpdatedAt     int64                   `json:"updated_at"`
}

// GroupSettlements groups a member's settlements by their role, with
// outstanding totals. Payable sums what the member still owes,
// Receivable what others still owe the member (settled records excluded
// from both).
type GroupSettlements struct {
	Pay        []SettlementEntry `json:"pay"`
	Receive    []SettlementEntry `json:"receive"`
	Settled    []SettlementEntry `json:"settled"`
	Payable    decimal.Decimal   `json:"payable"`
	Receivable decimal.Decimal   `json:"receivable"`
}

// ListGroupSettlements returns the acting member's settlements for a
// group, split into pay/receive/settled buckets.
func (s *SettlementService) ListGroupSettlements(ctx context.Context, actorID, groupID string) (*GroupSettlements, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, ErrForbidden
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(settlements)*2)
	for _, settlement := range settlements {
		userIDs = append(userIDs, settlement.FromUser, settlement.ToUser)
	}
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := &GroupSettlements{
		Pay:        []SettlementEntry{},
		Receive:    []SettlementEntry{},
		Settled:    []SettlementEntry{},
		Payable:    decimal.Zero,
		Receivable: decimal.Zero,
	}

	for _, settlement := range settlements {
		isPayer := settlement.FromUser == actorID
		isReceiver := settlement.ToUser == actorID
		if !isPayer && !isReceiver {
			continue
		}

		if settlement.Status != models.StatusSettled {
			if isPayer {
				result.Payable = result.Payable.Add(settlement.Amount)
			}
			if isReceiver {
				result.Receivable = result.Receivable.Add(settlement.Amount)
			}
		}

		entry := SettlementEntry{
			ID:            settlement.ID,
			From:          settlementParty(settlement.FromUser, users, actorID),
			To:            settlementParty(settlement.ToUser, users, actorID),
			Amount:        settlement.Amount,
			Status:        settlement.Status,
			DisplayStatus: displayStatus(settlement, isPayer),
			PaymentMethod: settlement.PaymentMethod,
			ReferenceID:   settlement.ReferenceID,
			Date:          settlement.Date,
			CreatedAt:     settlement.CreatedAt,
			UpdatedAt:     settlement.UpdatedAt,
		}

		switch {
		case settlement.Status == models.StatusSettled:
			result.Settled = append(result.Settled, entry)
		case isPayer:
			result.Pay = append(result.Pay, entry)
		default:
			result.Receive = append(result.Receive, entry)
		}
	}

	return result, nil
}

func settlementParty(userID string, users map[string]*models.User, actorID string) SettlementParty {
	party := SettlementParty{ID: userID, IsYou: userID == actorID}
	if user, ok := users[userID]; ok {
		party.Name = user.Name
	}
	return party
}

// displayStatus renders the status from the viewer's perspective: the
// receiver of an awaiting_confirmation settlement sees a call to action,
// the payer sees that they are waiting.
func displayStatus(settlement *models.Settlement, viewerIsPayer bool) string {
	switch settlement.Status {
	case models.StatusSettled:
		return "Settled"
	case models.StatusAwaitingConfirmation:
		if viewerIsPayer {
			return "Awaiting Confirmation"
		}
		return "Confirm Payment"
	default:
		return "Awaiting Payment"
	}
}
