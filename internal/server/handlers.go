package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rowin21/splitledger/internal/auth"
	"github.com/rowin21/splitledger/internal/middleware"
	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/service"
	"github.com/rowin21/splitledger/internal/storage"
)

// Handlers bundles the services behind the HTTP API.
type Handlers struct {
	Auth        *service.AuthService
	Groups      *service.GroupService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrPhoneExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrGroupInactive),
		errors.Is(err, service.ErrNoMembers),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseDay accepts either a bare day ("2006-01-02") or a full RFC 3339
// timestamp.
func parseDay(value string) (time.Time, error) {
	if t, err := time.Parse(models.DayFormat, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth ---

type userView struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type authResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Phone: u.Phone, Name: u.Name}
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, token, err := h.Auth.Register(r.Context(), req.Phone, req.Name, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{User: toUserView(user), Token: token})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, token, err := h.Auth.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{User: toUserView(user), Token: token})
}

// --- groups ---

type groupView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

func toGroupView(g *models.Group) groupView {
	return groupView{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func (h *Handlers) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := h.Groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Members)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupView(group))
}

func (h *Handlers) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.ListGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = toGroupView(g)
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handlers) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.Groups.GetGroup(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupView(group))
}

func (h *Handlers) handleDeactivateGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.Groups.DeactivateGroup(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handlers) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Members []string `json:"members"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := h.Groups.AddMembers(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Members)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupView(group))
}

// --- expenses ---

type expenseView struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"group_id"`
	PaidBy         string          `json:"paid_by"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	SplitAmong     []string        `json:"split_among"`
	PerPersonShare decimal.Decimal `json:"per_person_share"`
	CreatedAt      int64           `json:"created_at"`
	UpdatedAt      int64           `json:"updated_at"`
}

func toExpenseView(e *models.Expense) expenseView {
	return expenseView{
		ID:             e.ID,
		GroupID:        e.GroupID,
		PaidBy:         e.PaidBy,
		Amount:         e.Amount,
		Description:    e.Description,
		Date:           e.Date,
		SplitAmong:     e.SplitAmong,
		PerPersonShare: e.PerPersonShare,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (h *Handlers) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaidBy      string          `json:"paid_by"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Date        string          `json:"date"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	date, err := parseDay(req.Date)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(r.Context())
	paidBy := req.PaidBy
	if paidBy == "" {
		paidBy = actorID
	}

	expense, err := h.Expenses.AddExpense(r.Context(), actorID, service.AddExpenseInput{
		GroupID:     r.PathValue("id"),
		PaidBy:      paidBy,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseView(expense))
}

func (h *Handlers) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Expenses.ListGroupExpenses(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]expenseView, len(expenses))
	for i, e := range expenses {
		views[i] = toExpenseView(e)
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handlers) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      *decimal.Decimal `json:"amount"`
		Description *string          `json:"description"`
		Date        *string          `json:"date"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	in := service.UpdateExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		in.Date = &date
	}

	expense, err := h.Expenses.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseView(expense))
}

func (h *Handlers) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- settlements ---

type settlementView struct {
	ID            string                  `json:"id"`
	GroupID       string                  `json:"group_id"`
	FromUser      string                  `json:"from_user"`
	ToUser        string                  `json:"to_user"`
	Amount        decimal.Decimal         `json:"amount"`
	Status        models.SettlementStatus `json:"status"`
	PaymentMethod string                  `json:"payment_method,omitempty"`
	ReferenceID   string                  `json:"reference_id,omitempty"`
	Date          string                  `json:"date"`
	UpdatedAt     int64                   `json:"updated_at"`
}

func toSettlementView(s *models.Settlement) settlementView {
	return settlementView{
		ID:            s.ID,
		GroupID:       s.GroupID,
		FromUser:      s.FromUser,
		ToUser:        s.ToUser,
		Amount:        s.Amount,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		ReferenceID:   s.ReferenceID,
		Date:          s.Date,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (h *Handlers) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	result, err := h.Settlements.ListGroupSettlements(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) handleInitiateSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
		ReferenceID   string `json:"reference_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	settlement, err := h.Settlements.Initiate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.PaymentMethod, req.ReferenceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementView(settlement))
}

func (h *Handlers) handleCancelSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.Settlements.Cancel(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementView(settlement))
}

func (h *Handlers) handleResolveSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"` // "confirmed" or "rejected"
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Status != "confirmed" && req.Status != "rejected" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be 'confirmed' or 'rejected'"})
		return
	}

	settlement, err := h.Settlements.Resolve(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Status == "confirmed")
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementView(settlement))
}
