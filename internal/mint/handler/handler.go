// Package handler exposes the mint service and asset ledger over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,Assets

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

// Service defines the mint operations the handler needs.
type Service interface {
	Mint(ctx context.Context, req models.MintRequest) (*models.MintReceipt, error)
	OwnerMint(ctx context.Context, caller, to common.Address, quantity uint64) (models.TokenRange, error)

	Stages(ctx context.Context) ([]models.Stage, error)
	StageInfo(ctx context.Context, index int, wallet common.Address) (models.StageInfo, error)
	ActiveStage(ctx context.Context, now int64) (int, error)
	Supply(ctx context.Context) (models.SupplySummary, error)
	Config(ctx context.Context) (models.Config, error)
	Owner(ctx context.Context) (common.Address, error)
	TotalMintedByAddress(ctx context.Context, wallet common.Address) (uint64, error)
	CosignNonce(ctx context.Context, wallet common.Address) (uint64, error)
	Treasury(ctx context.Context) (*big.Int, error)
	Paused(ctx context.Context) (bool, error)

	ReplaceStages(ctx context.Context, caller common.Address, stages []models.Stage) error
	SetMintingEnabled(ctx context.Context, caller common.Address, enabled bool) error
	Pause(ctx context.Context, caller common.Address) error
	Unpause(ctx context.Context, caller common.Address) error
	SetCosigner(ctx context.Context, caller, cosigner common.Address) error
	SetSignatureExpiry(ctx context.Context, caller common.Address, seconds uint64) error
	SetGlobalWalletLimit(ctx context.Context, caller common.Address, limit uint64) error
	Withdraw(ctx context.Context, caller common.Address) (*big.Int, error)
	TransferOwnership(ctx context.Context, caller, next common.Address) error
}

// Assets defines the ownership ledger operations the handler needs.
type Assets interface {
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	BalanceOf(ctx context.Context, owner common.Address) (uint64, error)
	TransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64) error
	SafeTransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64, data []byte) error
}

// Handler wires mint endpoints to the mint service.
type Handler struct {
	service       Service
	assets        Assets
	requireCaller func(http.Handler) http.Handler
	logger        *slog.Logger
}

// New constructs a mint handler. requireCaller authenticates routes that act
// on behalf of a wallet.
func New(service Service, assets Assets, requireCaller func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		assets:        assets,
		requireCaller: requireCaller,
		logger:        logger,
	}
}

// Register mounts mint endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stages", h.HandleStages)
	r.Get("/stages/active", h.HandleActiveStage)
	r.Get("/stages/{index}", h.HandleStage)
	r.Get("/supply", h.HandleSupply)
	r.Get("/config", h.HandleConfig)
	r.Get("/treasury", h.HandleTreasury)
	r.Get("/wallets/{address}", h.HandleWallet)
	r.Get("/tokens/{id}/owner", h.HandleTokenOwner)

	r.Group(func(r chi.Router) {
		r.Use(h.requireCaller)
		r.Post("/mint", h.HandleMint)
		r.Post("/tokens/transfer", h.HandleTransfer)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/stages", h.HandleReplaceStages)
			r.Put("/minting", h.HandleSetMinting)
			r.Post("/pause", h.HandlePause)
			r.Post("/unpause", h.HandleUnpause)
			r.Put("/cosigner", h.HandleSetCosigner)
			r.Put("/signature-expiry", h.HandleSetSignatureExpiry)
			r.Put("/wallet-limit", h.HandleSetWalletLimit)
			r.Post("/owner-mint", h.HandleOwnerMint)
			r.Post("/withdraw", h.HandleWithdraw)
			r.Put("/owner", h.HandleTransferOwnership)
		})
	})
}

// HandleMint handles POST /mint requests.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	receipt, err := h.service.Mint(ctx, req.ToModel(caller))
	if err != nil {
		h.fail(ctx, w, "mint rejected", err, "wallet", caller.Hex(), "quantity", req.Quantity)
		return
	}

	h.logger.InfoContext(ctx, "mint committed",
		"request_id", requestID,
		"wallet", caller.Hex(),
		"stage", receipt.Stage,
		"first_token_id", receipt.Tokens.First,
		"count", receipt.Tokens.Count,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromReceipt(receipt))
}

// HandleStages handles GET /stages requests.
func (h *Handler) HandleStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stages, err := h.service.Stages(ctx)
	if err != nil {
		h.fail(ctx, w, "list stages failed", err)
		return
	}
	resp := StagesResponse{Stages: make([]StageResponse, 0, len(stages))}
	for i, s := range stages {
		resp.Stages = append(resp.Stages, fromStage(i, s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleStage handles GET /stages/{index}?wallet= requests.
func (h *Handler) HandleStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "stage index must be a non-negative integer"))
		return
	}
	var wallet common.Address
	if raw := r.URL.Query().Get("wallet"); raw != "" {
		if wallet, err = parseAddress("wallet", raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	info, err := h.service.StageInfo(ctx, index, wallet)
	if err != nil {
		h.fail(ctx, w, "stage lookup failed", err, "index", index)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromStageInfo(info))
}

// HandleActiveStage handles GET /stages/active requests.
func (h *Handler) HandleActiveStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := h.service.ActiveStage(ctx, requestcontext.Now(ctx).Unix())
	if err != nil {
		h.fail(ctx, w, "active stage lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ActiveStageResponse{Index: index})
}

// HandleSupply handles GET /supply requests.
func (h *Handler) HandleSupply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.Supply(ctx)
	if err != nil {
		h.fail(ctx, w, "supply lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleConfig handles GET /config requests.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg, err := h.service.Config(ctx)
	if err != nil {
		h.fail(ctx, w, "config lookup failed", err)
		return
	}
	owner, err := h.service.Owner(ctx)
	if err != nil {
		h.fail(ctx, w, "owner lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromConfig(owner, cfg))
}

// HandleTreasury handles GET /treasury requests.
func (h *Handler) HandleTreasury(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	balance, err := h.service.Treasury(ctx)
	if err != nil {
		h.fail(ctx, w, "treasury lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TreasuryResponse{Balance: amount(balance)})
}

// HandleWallet handles GET /wallets/{address} requests.
func (h *Handler) HandleWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("address", chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minted, err := h.service.TotalMintedByAddress(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "wallet lookup failed", err)
		return
	}
	nonce, err := h.service.CosignNonce(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "wallet lookup failed", err)
		return
	}
	balance, err := h.assets.BalanceOf(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "wallet lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WalletResponse{
		Wallet:      wallet.Hex(),
		TotalMinted: minted,
		CosignNonce: nonce,
		Balance:     balance,
	})
}

// HandleTokenOwner handles GET /tokens/{id}/owner requests.
func (h *Handler) HandleTokenOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token id must be a non-negative integer"))
		return
	}
	owner, err := h.assets.OwnerOf(ctx, id)
	if err != nil {
		h.fail(ctx, w, "owner lookup failed", err, "token_id", id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OwnerResponse{TokenID: id, Owner: owner.Hex()})
}

// HandleTransfer handles POST /tokens/transfer requests.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var err error
	if req.Safe {
		err = h.assets.SafeTransferFrom(ctx, caller, req.from, req.to, req.TokenID, req.data)
	} else {
		err = h.assets.TransferFrom(ctx, caller, req.from, req.to, req.TokenID)
	}
	if err != nil {
		h.fail(ctx, w, "transfer rejected", err, "token_id", req.TokenID, "operator", caller.Hex())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail logs err at a level matching its code and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	if reason := dErrors.ReasonOf(err); reason != "" {
		attrs = append(attrs, "reason", reason)
	}
	if dErrors.GetCode(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
