// Package handler wires governance endpoints to the governance service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/governance/models"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/httputil"
	"propdesk/pkg/requestcontext"
)

// Service defines the governance operations the transport exposes.
type Service interface {
	SubmitVote(ctx context.Context, admin domain.AccountID, voteType models.VoteType, weight uint64) (models.VoteTally, error)
	ValidateVotes(ctx context.Context, admin domain.AccountID, externalData []byte) (models.AdminStatus, error)
	CheckAdminStatus(ctx context.Context, admin domain.AccountID) (models.AdminStatus, error)
	Tally(ctx context.Context, admin domain.AccountID) (models.VoteTally, error)
	CreatePropPool(ctx context.Context, initialAmount domain.Amount, params []byte) (models.Pool, error)
	DonateToPool(ctx context.Context, id domain.PoolID, amount domain.Amount) (models.Pool, error)
	AllocateToBeginner(ctx context.Context, beginner domain.AccountID, id domain.PoolID, amount domain.Amount) (models.Pool, error)
	Pool(ctx context.Context, id domain.PoolID) (models.Pool, error)
	AllocationFor(ctx context.Context, beginner domain.AccountID) (models.Allocation, error)
}

// Handler is the thin HTTP layer over the governance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts governance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/governance/votes", h.HandleSubmitVote)
	r.Post("/governance/admins/{admin}/validate", h.HandleValidateVotes)
	r.Get("/governance/admins/{admin}/status", h.HandleAdminStatus)
	r.Get("/governance/admins/{admin}/tally", h.HandleTally)
	r.Post("/governance/pools", h.HandleCreatePool)
	r.Post("/governance/pools/{id}/donations", h.HandleDonate)
	r.Post("/governance/pools/{id}/allocations", h.HandleAllocate)
	r.Get("/governance/pools/{id}", h.HandlePool)
	r.Get("/governance/allocations/{beginner}", h.HandleAllocation)
}

type submitVoteRequest struct {
	Admin    string `json:"admin"`
	VoteType uint8  `json:"vote_type"`
	Weight   uint64 `json:"weight"`
}

func (h *Handler) HandleSubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[submitVoteRequest](w, r, h.logger)
	if !ok {
		return
	}
	admin, err := domain.AccountIDFromHex(req.Admin)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid admin account"))
		return
	}

	tally, err := h.service.SubmitVote(ctx, admin, models.VoteType(req.VoteType), req.Weight)
	if err != nil {
		h.logger.WarnContext(ctx, "vote rejected",
			"request_id", requestcontext.RequestID(ctx),
			"admin", admin.Hex(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tally)
}

type validateVotesRequest struct {
	ExternalData []byte `json:"external_data"`
}

func (h *Handler) HandleValidateVotes(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[validateVotesRequest](w, r, h.logger)
	if !ok {
		return
	}

	status, err := h.service.ValidateVotes(r.Context(), admin, req.ExternalData)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

func (h *Handler) HandleAdminStatus(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.service.CheckAdminStatus(r.Context(), admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

func (h *Handler) HandleTally(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tally, err := h.service.Tally(r.Context(), admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tally)
}

type createPoolRequest struct {
	InitialAmount uint64 `json:"initial_amount"`
	Params        []byte `json:"params"`
}

func (h *Handler) HandleCreatePool(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createPoolRequest](w, r, h.logger)
	if !ok {
		return
	}
	pool, err := h.service.CreatePropPool(r.Context(), domain.Amount(req.InitialAmount), req.Params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pool)
}

type donateRequest struct {
	Amount uint64 `json:"amount"`
}

func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	id, err := poolParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[donateRequest](w, r, h.logger)
	if !ok {
		return
	}
	pool, err := h.service.DonateToPool(r.Context(), id, domain.Amount(req.Amount))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pool)
}

type allocateRequest struct {
	Beginner string `json:"beginner"`
	Amount   uint64 `json:"amount"`
}

func (h *Handler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	id, err := poolParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[allocateRequest](w, r, h.logger)
	if !ok {
		return
	}
	beginner, err := domain.AccountIDFromHex(req.Beginner)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid beginner account"))
		return
	}

	pool, err := h.service.AllocateToBeginner(r.Context(), beginner, id, domain.Amount(req.Amount))
	if err != nil {
		h.logger.WarnContext(r.Context(), "allocation rejected",
			"request_id", requestcontext.RequestID(r.Context()),
			"pool", id.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pool)
}

func (h *Handler) HandlePool(w http.ResponseWriter, r *http.Request) {
	id, err := poolParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pool, err := h.service.Pool(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pool)
}

func (h *Handler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	beginner, err := accountParam(r, "beginner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	allocation, err := h.service.AllocationFor(r.Context(), beginner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, allocation)
}

func accountParam(r *http.Request, name string) (domain.AccountID, error) {
	account, err := domain.AccountIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return domain.AccountID{}, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+" account")
	}
	return account, nil
}

func poolParam(r *http.Request) (domain.PoolID, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid pool id")
	}
	return domain.PoolID(id), nil
}
