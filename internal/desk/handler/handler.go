// Package handler wires platform endpoints to the desk orchestrator. The two
// leaf collaborators are held here only to hand to InitializePlatform; every
// other call goes through the orchestrator alone.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/desk/models"
	deskservice "propdesk/internal/desk/service"
	identitymodels "propdesk/internal/identity/models"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/httputil"
	"propdesk/pkg/requestcontext"
)

// Service defines the orchestrator operations the transport exposes.
type Service interface {
	InitializePlatform(ctx context.Context, identity deskservice.IdentityRegistrar, governance deskservice.GovernanceReader) error
	RegisterUser(ctx context.Context, credentials, proof []byte) (*identitymodels.Identity, error)
	AuthorizeAdmin(ctx context.Context, admin domain.AccountID, agreementTerms []byte) error
	VerifyAdminAuthorization(ctx context.Context, user, admin domain.AccountID) (bool, error)
	ExecuteTrade(ctx context.Context, params models.TradeParams) (models.TradeRecord, error)
	ValidateTradeRequest(ctx context.Context, admin, user domain.AccountID) (bool, error)
	PlatformStats(ctx context.Context) (models.PlatformStats, error)
	AdminPerformance(ctx context.Context, admin domain.AccountID) (models.AdminStats, error)
	TradeHistory(ctx context.Context, admin domain.AccountID) ([]models.TradeRecord, error)
	TradeBySeq(ctx context.Context, seq domain.TradeSeq) (models.TradeRecord, error)
}

// Handler is the thin HTTP layer over the desk orchestrator.
type Handler struct {
	service    Service
	identity   deskservice.IdentityRegistrar
	governance deskservice.GovernanceReader
	logger     *slog.Logger
}

func New(service Service, identity deskservice.IdentityRegistrar, governance deskservice.GovernanceReader, logger *slog.Logger) *Handler {
	return &Handler{service: service, identity: identity, governance: governance, logger: logger}
}

// Register mounts platform endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/platform/initialize", h.HandleInitialize)
	r.Post("/platform/users", h.HandleRegisterUser)
	r.Post("/platform/admins/{admin}/authorize", h.HandleAuthorizeAdmin)
	r.Get("/platform/authorizations/{user}/{admin}", h.HandleVerifyAuthorization)
	r.Post("/platform/trades", h.HandleExecuteTrade)
	r.Get("/platform/trades/{admin}", h.HandleTradeHistory)
	r.Get("/platform/trades/seq/{seq}", h.HandleTradeBySeq)
	r.Get("/platform/validate/{admin}/{user}", h.HandleValidateTrade)
	r.Get("/platform/stats", h.HandleStats)
	r.Get("/platform/admins/{admin}/performance", h.HandlePerformance)
}

func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.InitializePlatform(ctx, h.identity, h.governance); err != nil {
		h.logger.WarnContext(ctx, "platform initialization rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"initialized": true})
}

type registerUserRequest struct {
	Credentials []byte `json:"credentials"`
	Proof       []byte `json:"proof"`
}

func (h *Handler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[registerUserRequest](w, r, h.logger)
	if !ok {
		return
	}
	identity, err := h.service.RegisterUser(ctx, req.Credentials, req.Proof)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"account":    identity.Account.Hex(),
		"credential": identity.Credential.String(),
	})
}

type authorizeAdminRequest struct {
	AgreementTerms []byte `json:"agreement_terms"`
}

func (h *Handler) HandleAuthorizeAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[authorizeAdminRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.AuthorizeAdmin(r.Context(), admin, req.AgreementTerms); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}

func (h *Handler) HandleVerifyAuthorization(w http.ResponseWriter, r *http.Request) {
	user, err := accountParam(r, "user")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ok, err := h.service.VerifyAdminAuthorization(r.Context(), user, admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"authorized": ok})
}

type executeTradeRequest struct {
	User      string `json:"user"`
	Amount    uint64 `json:"amount"`
	TradeType string `json:"trade_type"`
	Metadata  []byte `json:"metadata"`
}

func (h *Handler) HandleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[executeTradeRequest](w, r, h.logger)
	if !ok {
		return
	}
	user, err := domain.AccountIDFromHex(req.User)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user account"))
		return
	}

	record, err := h.service.ExecuteTrade(ctx, models.TradeParams{
		User:      user,
		Amount:    domain.Amount(req.Amount),
		TradeType: req.TradeType,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "trade rejected",
			"request_id", requestcontext.RequestID(ctx),
			"user", user.Hex(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) HandleTradeHistory(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	history, err := h.service.TradeHistory(r.Context(), admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"trades": history})
}

func (h *Handler) HandleTradeBySeq(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseUint(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid trade sequence"))
		return
	}
	record, err := h.service.TradeBySeq(r.Context(), domain.TradeSeq(seq))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleValidateTrade(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := accountParam(r, "user")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	valid, err := h.service.ValidateTradeRequest(r.Context(), admin, user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PlatformStats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stats, err := h.service.AdminPerformance(r.Context(), admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func accountParam(r *http.Request, name string) (domain.AccountID, error) {
	account, err := domain.AccountIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return domain.AccountID{}, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+" account")
	}
	return account, nil
}
