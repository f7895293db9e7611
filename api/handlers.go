/*
handlers.go - HTTP API handlers for the punch clock

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Auth:
    POST   /api/auth/login            Exchange credentials for a token

  Punch (employee):
    POST   /api/punch/in              Open today's session
    POST   /api/punch/out             Close today's session into a work log
    GET    /api/punch/status          Open-session state

  Accounts (admin):
    GET    /api/accounts              List accounts
    POST   /api/accounts              Create account
    DELETE /api/accounts/{username}   Delete account (cascades logs)
    PUT    /api/accounts/{username}/rate  Change hourly rate

  Logs (admin):
    GET    /api/logs                  List work logs
    PATCH  /api/logs/{id}             Revise deduction (recomputes minutes)

  Settings (admin):
    GET    /api/settings              Current pay-period start days
    PUT    /api/settings              Replace start days (all-or-nothing)

  Summary (admin):
    GET    /api/summary               Payroll summary rows
    GET    /api/summary/export        CSV export

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401/403: Missing/invalid token, insufficient role
  - 404: Resource not found
  - 409: Conflict (duplicate username, double punch-in)
  - 500: Storage failures, never masked as success

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Login and token middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/punchclock/payroll"
	"github.com/warp/punchclock/punch"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     payroll.Storage
	Tracker   *punch.Tracker
	JWTSecret []byte
	Log       *slog.Logger

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewHandler creates a new handler over the given storage.
func NewHandler(store payroll.Storage, secret []byte, logger *slog.Logger) *Handler {
	return &Handler{
		Store:     store,
		Tracker:   punch.NewTracker(store),
		JWTSecret: secret,
		Log:       logger,
		now:       time.Now,
	}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// PunchIn opens today's session for the calling employee.
func (h *Handler) PunchIn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	session, err := h.Tracker.PunchIn(r.Context(), claims.Username, h.now())
	if err != nil {
		if errors.Is(err, payroll.ErrAlreadyPunchedIn) {
			writeError(w, http.StatusConflict, "Already punched in today", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to punch in", err)
		return
	}

	h.Log.Info("punch in", "user", claims.Username, "at", session.PunchIn)
	writeJSON(w, http.StatusOK, PunchStatusDTO{
		PunchedIn: true,
		Date:      session.Date,
		PunchIn:   session.PunchIn,
	})
}

// PunchOut closes today's session into a finalized work log.
func (h *Handler) PunchOut(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	workLog, err := h.Tracker.PunchOut(r.Context(), claims.Username, h.now())
	if err != nil {
		if errors.Is(err, payroll.ErrNoOpenSession) {
			writeError(w, http.StatusBadRequest, "No punch-in record found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to punch out", err)
		return
	}

	h.Log.Info("punch out", "user", claims.Username, "minutes", workLog.MinutesWorked)
	writeJSON(w, http.StatusCreated, toWorkLogDTO(workLog))
}

// PunchStatus reports the calling employee's open session.
func (h *Handler) PunchStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	session, err := h.Tracker.Status(r.Context(), claims.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read punch status", err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, PunchStatusDTO{PunchedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, PunchStatusDTO{
		PunchedIn: true,
		Date:      session.Date,
		PunchIn:   session.PunchIn,
	})
}

// =============================================================================
// ACCOUNT HANDLERS (admin)
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.GetAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAccount creates a new account. Duplicate usernames are rejected
// before any storage write.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required", nil)
		return
	}
	role := payroll.Role(req.Role)
	if role != payroll.RoleAdmin && role != payroll.RoleEmployee {
		writeError(w, http.StatusBadRequest, "Role must be admin or employee", nil)
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "Hourly rate must be >= 0", nil)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetAccount(ctx, req.Username); err == nil {
		writeError(w, http.StatusConflict, "Username already exists", payroll.ErrDuplicateUsername)
		return
	} else if !errors.Is(err, payroll.ErrAccountNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check username", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	acct := payroll.Account{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		HourlyRate:   decimal.NewFromFloat(req.HourlyRate),
	}
	if err := h.Store.UpsertAccount(ctx, acct); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	h.Log.Info("account created", "user", acct.Username, "role", acct.Role)
	writeJSON(w, http.StatusCreated, toAccountDTO(acct))
}

// DeleteAccount removes an account and all of that user's work logs.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.Store.DeleteAccount(r.Context(), username); err != nil {
		if errors.Is(err, payroll.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "Account not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete account", err)
		return
	}

	h.Log.Info("account deleted", "user", username)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": username})
}

// UpdateRate changes an employee's hourly rate.
func (h *Handler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "Hourly rate must be >= 0", nil)
		return
	}

	ctx := r.Context()
	acct, err := h.Store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, payroll.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "Account not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load account", err)
		return
	}

	acct.HourlyRate = decimal.NewFromFloat(req.HourlyRate)
	if err := h.Store.UpsertAccount(ctx, acct); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(acct))
}

// =============================================================================
// WORK LOG HANDLERS (admin)
// =============================================================================

// ListLogs returns all work logs.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Store.GetLogs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs", err)
		return
	}

	dtos := make([]WorkLogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = toWorkLogDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateDeduction revises a log's deduction and recomputes its worked
// minutes from the stored punch times. Non-numeric or negative deductions
// coerce to zero (lenient policy).
func (h *Handler) UpdateDeduction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Lenient: malformed deduction input coerces to zero.
		req.Deduction = 0
	}
	deduction := int(req.Deduction)
	if deduction < 0 {
		deduction = 0
	}

	ctx := r.Context()
	logs, err := h.Store.GetLogs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load logs", err)
		return
	}

	var target *payroll.WorkLog
	for i := range logs {
		if logs[i].ID == id {
			target = &logs[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "Work log not found", nil)
		return
	}

	patch := payroll.LogPatch{
		Deduction:     deduction,
		MinutesWorked: payroll.ComputeWorkedMinutes(target.PunchIn, target.PunchOut, deduction),
	}
	if err := h.Store.UpdateLog(ctx, id, patch); err != nil {
		if errors.Is(err, payroll.ErrLogNotFound) {
			writeError(w, http.StatusNotFound, "Work log not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update log", err)
		return
	}

	target.Deduction = patch.Deduction
	target.MinutesWorked = patch.MinutesWorked
	writeJSON(w, http.StatusOK, toWorkLogDTO(*target))
}

// =============================================================================
// SETTINGS HANDLERS (admin)
// =============================================================================

// GetSettings returns the configured pay-period start days.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetPaySettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, PaySettingsDTO{StartDays: settings.StartDays})
}

// PutSettings replaces the pay-period start days. Invalid input rejects
// the whole request; no partial settings are saved.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req PaySettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings := payroll.PaySettings{StartDays: req.StartDays}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Start days must be integers in [1,31]", err)
		return
	}

	if err := h.Store.SetPaySettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	h.Log.Info("pay settings updated", "start_days", settings.StartDays)
	writeJSON(w, http.StatusOK, PaySettingsDTO{StartDays: settings.StartDays})
}

// =============================================================================
// SUMMARY HANDLERS (admin)
// =============================================================================

// GetSummary computes payroll summary rows from all logs and current rates.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.summaryRows(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}

	dtos := make([]SummaryRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SummaryRowDTO{
			PayPeriodStart: row.PayPeriodStart,
			Username:       row.Username,
			TotalHours:     row.TotalHours,
			TotalPay:       row.TotalPay,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportSummary streams the summary as CSV. Fields are written raw: the
// format guarantees no quoting, assuming no embedded commas in usernames.
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.summaryRows(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll-summary.csv"`)
	fmt.Fprintln(w, "Pay Period Start,Employee,Total Hours,Total Pay")
	for _, row := range rows {
		fmt.Fprintf(w, "%s,%s,%s,%s\n", row.PayPeriodStart, row.Username, row.TotalHours, row.TotalPay)
	}
}

func (h *Handler) summaryRows(r *http.Request) ([]payroll.SummaryRow, error) {
	ctx := r.Context()
	logs, err := h.Store.GetLogs(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := h.Store.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return payroll.Aggregate(logs, payroll.AccountIndex(accounts)), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
