package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wingo/clock"
	"wingo/events"
	"wingo/models"
	"wingo/service"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// HandlerDeps carries the collaborators the HTTP handlers need
type HandlerDeps struct {
	Betting         service.BettingService
	Sync            service.SyncService
	UserRepo        service.UserRepository
	ConfigRepo      service.ConfigRepository
	Bus             *events.Bus
	StartingBalance float64
	ResultLimit     int
	BetLimit        int
}

// Handler serves the polling and betting endpoints
type Handler struct {
	betting         service.BettingService
	sync            service.SyncService
	userRepo        service.UserRepository
	configRepo      service.ConfigRepository
	bus             *events.Bus
	startingBalance float64
	resultLimit     int
	betLimit        int
	now             func() time.Time
}

// NewHandler creates the HTTP handler set
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		betting:         deps.Betting,
		sync:            deps.Sync,
		userRepo:        deps.UserRepo,
		configRepo:      deps.ConfigRepo,
		bus:             deps.Bus,
		startingBalance: deps.StartingBalance,
		resultLimit:     deps.ResultLimit,
		betLimit:        deps.BetLimit,
		now:             time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithField("error", err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decode[T any](r *http.Request, dst *T) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// modeParam extracts and validates the {mode} URL parameter
func modeParam(r *http.Request) (models.GameMode, bool) {
	mode := models.GameMode(chi.URLParam(r, "mode"))
	return mode, mode.IsDiscrete()
}

// CurrentPeriod serves GET /game/{mode}/current
func (h *Handler) CurrentPeriod(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	writeJSON(w, http.StatusOK, toPeriodResponse(clock.Current(mode, h.now())))
}

// RecentResults serves GET /game/{mode}/results
func (h *Handler) RecentResults(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	limit := h.resultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be 1-100")
			return
		}
		limit = parsed
	}

	results, err := h.sync.RecentResults(r.Context(), mode, limit)
	if err != nil {
		log.WithField("error", err).Error("Failed to load recent results")
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	writeJSON(w, http.StatusOK, toResultResponses(results))
}

// Snapshot serves GET /users/{id}/snapshot
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	snapshot, err := h.sync.Snapshot(r.Context(), userID, h.resultLimit, h.betLimit)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSnapshotResponse(snapshot))
}

// CreateUser serves POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Mobile == "" {
		writeError(w, http.StatusBadRequest, "name and mobile are required")
		return
	}

	user, err := h.userRepo.Create(r.Context(), req.Name, req.Mobile, h.startingBalance)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		DepositBalance:  user.DepositBalance,
		WithdrawBalance: user.WithdrawBalance,
		TotalBalance:    user.TotalBalance(),
	})
}

// PlaceBet serves POST /bets
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req PlaceBetRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bet, err := h.betting.PlaceBet(r.Context(), req.UserID, req.Mode, req.PeriodID, req.Type, req.Value, req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toBetResponse(bet))
}

// SetOverride serves POST /admin/override
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req OverrideRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.configRepo.SetOverride(r.Context(), req.Mode, req.Number); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"mode":   req.Mode,
		"number": req.Number,
	}).Info("Operator set result override")

	w.WriteHeader(http.StatusNoContent)
}

// ClearOverride serves DELETE /admin/override/{mode}
func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	if err := h.configRepo.ClearOverride(r.Context(), mode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetEmergencyStop serves POST /admin/emergency-stop
func (h *Handler) SetEmergencyStop(w http.ResponseWriter, r *http.Request) {
	var req EmergencyStopRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.configRepo.SetEmergencyStop(r.Context(), req.Stopped); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.WithField("stopped", req.Stopped).Warn("Operator changed emergency stop flag")
	h.bus.Emit(r.Context(), events.ConfigChangeEvent{EmergencyStop: req.Stopped})

	w.WriteHeader(http.StatusNoContent)
}

// GetConfig serves GET /admin/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configRepo.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
