package handler

import (
	"net/http"

	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

// HandleReplaceStages handles PUT /admin/stages requests.
func (h *Handler) HandleReplaceStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ReplaceStagesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.ReplaceStages(ctx, requestcontext.Caller(ctx), req.ParsedStages()); err != nil {
		h.fail(ctx, w, "replace stages failed", err)
		return
	}
	h.HandleStages(w, r)
}

// HandleSetMinting handles PUT /admin/minting requests.
func (h *Handler) HandleSetMinting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[MintingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetMintingEnabled(ctx, requestcontext.Caller(ctx), *req.Enabled); err != nil {
		h.fail(ctx, w, "set minting failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePause handles POST /admin/pause requests.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Pause(ctx, requestcontext.Caller(ctx)); err != nil {
		h.fail(ctx, w, "pause failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PausedResponse{Paused: true})
}

// HandleUnpause handles POST /admin/unpause requests.
func (h *Handler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Unpause(ctx, requestcontext.Caller(ctx)); err != nil {
		h.fail(ctx, w, "unpause failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PausedResponse{Paused: false})
}

// HandleSetCosigner handles PUT /admin/cosigner requests.
func (h *Handler) HandleSetCosigner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CosignerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetCosigner(ctx, requestcontext.Caller(ctx), req.parsed); err != nil {
		h.fail(ctx, w, "set cosigner failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetSignatureExpiry handles PUT /admin/signature-expiry requests.
func (h *Handler) HandleSetSignatureExpiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SignatureExpiryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetSignatureExpiry(ctx, requestcontext.Caller(ctx), req.Seconds); err != nil {
		h.fail(ctx, w, "set signature expiry failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetWalletLimit handles PUT /admin/wallet-limit requests.
func (h *Handler) HandleSetWalletLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[WalletLimitRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetGlobalWalletLimit(ctx, requestcontext.Caller(ctx), req.Limit); err != nil {
		h.fail(ctx, w, "set wallet limit failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleOwnerMint handles POST /admin/owner-mint requests.
func (h *Handler) HandleOwnerMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[OwnerMintRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	tokens, err := h.service.OwnerMint(ctx, requestcontext.Caller(ctx), req.to, req.Quantity)
	if err != nil {
		h.fail(ctx, w, "owner mint failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, OwnerMintResponse{
		To:           req.to.Hex(),
		FirstTokenID: tokens.First,
		Count:        tokens.Count,
	})
}

// HandleWithdraw handles POST /admin/withdraw requests.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	amt, err := h.service.Withdraw(ctx, requestcontext.Caller(ctx))
	if err != nil {
		h.fail(ctx, w, "withdraw failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{Amount: amount(amt)})
}

// HandleTransferOwnership handles PUT /admin/owner requests.
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[OwnerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.TransferOwnership(ctx, requestcontext.Caller(ctx), req.parsed); err != nil {
		h.fail(ctx, w, "transfer ownership failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
