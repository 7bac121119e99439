// Package handler wires identity endpoints to the identity service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/identity/models"
	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
	"propdesk/pkg/platform/httputil"
	"propdesk/pkg/requestcontext"
)

// Service defines the identity operations the transport exposes.
type Service interface {
	RegisterIdentity(ctx context.Context, credentials, proof []byte) (*models.Identity, error)
	CreateTrustAgreement(ctx context.Context, admin domain.AccountID, terms, signature []byte) (*models.TrustAgreement, error)
	VerifyTrustAgreement(ctx context.Context, user, admin domain.AccountID) (bool, error)
	AdminTrustScore(ctx context.Context, admin domain.AccountID) (uint64, error)
	UpdateTrustScore(ctx context.Context, admin domain.AccountID, delta uint64, proof []byte) (uint64, error)
}

// Handler is the thin HTTP layer over the identity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/register", h.HandleRegister)
	r.Post("/identity/agreements", h.HandleCreateAgreement)
	r.Get("/identity/agreements/{user}/{admin}", h.HandleVerifyAgreement)
	r.Get("/identity/admins/{admin}/score", h.HandleTrustScore)
	r.Post("/identity/admins/{admin}/score", h.HandleUpdateTrustScore)
}

type registerRequest struct {
	Credentials []byte `json:"credentials"`
	Proof       []byte `json:"proof"`
}

type registerResponse struct {
	Account      string `json:"account"`
	Credential   string `json:"credential"`
	RegisteredAt string `json:"registered_at"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[registerRequest](w, r, h.logger)
	if !ok {
		return
	}

	identity, err := h.service.RegisterIdentity(ctx, req.Credentials, req.Proof)
	if err != nil {
		h.logger.WarnContext(ctx, "identity registration rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, registerResponse{
		Account:      identity.Account.Hex(),
		Credential:   identity.Credential.String(),
		RegisteredAt: identity.RegisteredAt.Format(time.RFC3339Nano),
	})
}

type createAgreementRequest struct {
	Admin     string `json:"admin"`
	Terms     []byte `json:"terms"`
	Signature []byte `json:"signature"`
}

func (h *Handler) HandleCreateAgreement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createAgreementRequest](w, r, h.logger)
	if !ok {
		return
	}
	admin, err := domain.AccountIDFromHex(req.Admin)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid admin account"))
		return
	}

	agreement, err := h.service.CreateTrustAgreement(ctx, admin, req.Terms, req.Signature)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"user":   agreement.User.Hex(),
		"admin":  agreement.Admin.Hex(),
		"terms":  agreement.Terms.String(),
		"active": agreement.Active,
	})
}

func (h *Handler) HandleVerifyAgreement(w http.ResponseWriter, r *http.Request) {
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

	active, err := h.service.VerifyTrustAgreement(r.Context(), user, admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (h *Handler) HandleTrustScore(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	score, err := h.service.AdminTrustScore(r.Context(), admin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]uint64{"score": score})
}

type updateScoreRequest struct {
	Delta uint64 `json:"delta"`
	Proof []byte `json:"proof"`
}

func (h *Handler) HandleUpdateTrustScore(w http.ResponseWriter, r *http.Request) {
	admin, err := accountParam(r, "admin")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateScoreRequest](w, r, h.logger)
	if !ok {
		return
	}

	score, err := h.service.UpdateTrustScore(r.Context(), admin, req.Delta, req.Proof)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]uint64{"score": score})
}

// accountParam parses a 0x-hex account from a URL parameter.
func accountParam(r *http.Request, name string) (domain.AccountID, error) {
	account, err := domain.AccountIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return domain.AccountID{}, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+" account")
	}
	return account, nil
}
