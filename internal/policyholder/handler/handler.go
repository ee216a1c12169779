package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"policyhub/internal/policyholder/models"
	"policyhub/internal/policyholder/service"
	id "policyhub/pkg/domain"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/httputil"
	"policyhub/pkg/requestcontext"
)

// Service defines the policy holder operations exposed over HTTP.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Register(ctx context.Context, cmd *service.RegisterCommand) (*models.PolicyHolder, error)
	AddPolicy(ctx context.Context, cmd *service.AddPolicyCommand) (*models.Policy, error)
	UpdateContactInfo(ctx context.Context, cmd *service.UpdateContactInfoCommand) (*models.PolicyHolder, error)
	UpdateAddress(ctx context.Context, cmd *service.UpdateAddressCommand) (*models.PolicyHolder, error)
	Deactivate(ctx context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error)
	TerminatePolicy(ctx context.Context, holderID id.PolicyHolderID, policyID id.PolicyID) (*models.PolicyHolder, error)
	Get(ctx context.Context, holderID id.PolicyHolderID) (*models.PolicyHolder, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.PolicyHolder, error)
	History(ctx context.Context, holderID id.PolicyHolderID) ([]eventlog.Event, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/policy-holders", h.HandleRegister)
	r.Get("/policy-holders", h.HandleFindByNationalID)
	r.Get("/policy-holders/{id}", h.HandleGet)
	r.Delete("/policy-holders/{id}", h.HandleDeactivate)
	r.Put("/policy-holders/{id}/contact-info", h.HandleUpdateContactInfo)
	r.Put("/policy-holders/{id}/address", h.HandleUpdateAddress)
	r.Post("/policy-holders/{id}/policies", h.HandleAddPolicy)
	r.Post("/policy-holders/{id}/policies/{policyID}/terminate", h.HandleTerminatePolicy)
	r.Get("/policy-holders/{id}/events", h.HandleHistory)
}

// HandleRegister registers a new policy holder.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	holder, err := h.service.Register(ctx, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "register policy holder failed", err)
		return
	}
	w.Header().Set("Location", "/policy-holders/"+holder.ID().String())
	httputil.WriteJSON(w, http.StatusCreated, toPolicyHolderResponse(holder))
}

// HandleFindByNationalID looks a holder up by the national_id query parameter.
func (h *Handler) HandleFindByNationalID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holder, err := h.service.GetByNationalID(ctx, r.URL.Query().Get("national_id"))
	if err != nil {
		h.fail(ctx, w, "find policy holder by national id failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	holder, err := h.service.Get(ctx, holderID)
	if err != nil {
		h.fail(ctx, w, "get policy holder failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

// HandleDeactivate soft-deletes a policy holder.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	holder, err := h.service.Deactivate(ctx, holderID)
	if err != nil {
		h.fail(ctx, w, "deactivate policy holder failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

func (h *Handler) HandleUpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateContactInfoRequest](w, r, h.logger)
	if !ok {
		return
	}
	holder, err := h.service.UpdateContactInfo(ctx, &service.UpdateContactInfoCommand{
		HolderID: holderID,
		Mobile:   req.Mobile,
		Email:    req.Email,
	})
	if err != nil {
		h.fail(ctx, w, "update contact info failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

func (h *Handler) HandleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger)
	if !ok {
		return
	}
	holder, err := h.service.UpdateAddress(ctx, &service.UpdateAddressCommand{
		HolderID: holderID,
		ZipCode:  req.ZipCode,
		City:     req.City,
		District: req.District,
		Street:   req.Street,
	})
	if err != nil {
		h.fail(ctx, w, "update address failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

// HandleAddPolicy attaches a new policy and returns it.
func (h *Handler) HandleAddPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddPolicyRequest](w, r, h.logger)
	if !ok {
		return
	}
	policy, err := h.service.AddPolicy(ctx, req.toCommand(holderID))
	if err != nil {
		h.fail(ctx, w, "add policy failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPolicyResponse(policy))
}

func (h *Handler) HandleTerminatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	policyID, err := id.ParsePolicyID(chi.URLParam(r, "policyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	holder, err := h.service.TerminatePolicy(ctx, holderID, policyID)
	if err != nil {
		h.fail(ctx, w, "terminate policy failed", err, "policy_holder_id", holderID, "policy_id", policyID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyHolderResponse(holder))
}

// HandleHistory returns the holder's domain events, oldest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	holderID, ok := h.holderID(w, r)
	if !ok {
		return
	}
	events, err := h.service.History(ctx, holderID)
	if err != nil {
		h.fail(ctx, w, "read policy holder history failed", err, "policy_holder_id", holderID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(holderID.String(), events))
}

func (h *Handler) holderID(w http.ResponseWriter, r *http.Request) (id.PolicyHolderID, bool) {
	holderID, err := id.ParsePolicyHolderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return holderID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", requestcontext.RequestID(ctx))
	h.logger.WarnContext(ctx, msg, attrs...)
	httputil.WriteError(w, err)
}
