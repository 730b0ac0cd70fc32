package service

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mintgate/internal/mint/allowlist"
	"mintgate/internal/mint/cosign"
	"mintgate/internal/mint/models"
	"mintgate/internal/mint/stage"
	"mintgate/internal/mint/supply"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/audit"
	"mintgate/pkg/requestcontext"
)

// admission is what a successful authorization reserved, kept so a failed
// asset mint can be compensated exactly.
type admission struct {
	stage    int
	quantity uint64
	required *big.Int
	refund   *big.Int
	cosigned bool
}

// Mint authorizes and executes a public mint for req.Caller. Checks run in
// a fixed order and the first failure is returned; a rejected request
// leaves the state untouched.
func (s *Service) Mint(ctx context.Context, req models.MintRequest) (*models.MintReceipt, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "mint.Mint", trace.WithAttributes(
		attribute.String("wallet", req.Caller.Hex()),
		attribute.Int64("quantity", int64(req.Quantity)),
	))
	defer span.End()

	ctx, release, err := s.enter(ctx)
	if err != nil {
		s.mintRejected(ctx, span, req, err, start)
		return nil, err
	}
	defer release()

	now := requestcontext.Now(ctx).Unix()
	var adm admission
	err = s.store.RunInTx(ctx, func(st *models.State) error {
		a, err := authorize(st, req, now)
		if err != nil {
			return err
		}
		adm = a
		return nil
	})
	release()
	if err != nil {
		err = translate(err, "failed to commit mint")
		s.mintRejected(ctx, span, req, err, start)
		return nil, err
	}

	tokens, err := s.assets.Mint(ctx, req.Caller, adm.quantity)
	if err != nil {
		s.compensate(ctx, req, adm)
		span.RecordError(err)
		span.SetStatus(codes.Error, "asset ledger mint failed")
		if s.metrics != nil {
			s.metrics.ObserveMint("failed", time.Since(start))
		}
		return nil, translate(err, "asset ledger mint failed")
	}

	receipt := &models.MintReceipt{
		Stage:  adm.stage,
		Tokens: tokens,
		Paid:   adm.required,
		Refund: adm.refund,
	}
	if s.metrics != nil {
		s.metrics.ObserveMint("success", time.Since(start))
		s.metrics.AddTokensMinted(strconv.Itoa(adm.stage), adm.quantity)
	}
	span.SetAttributes(attribute.Int("stage", adm.stage))
	s.logAudit(ctx, audit.EventTokensMinted,
		"subject", req.Caller.Hex(),
		"stage", adm.stage,
		"quantity", adm.quantity,
		"amount", adm.required,
		"first_token", tokens.First,
	)
	return receipt, nil
}

// authorize runs the admission checks against st and, when all pass,
// reserves supply, credits the treasury and consumes the cosign nonce.
func authorize(st *models.State, req models.MintRequest, now int64) (admission, error) {
	cfg := st.Config
	if !cfg.MintingEnabled {
		return admission{}, models.ErrNotMintable
	}
	if req.Quantity == 0 {
		return admission{}, models.ErrInvalidQuantity
	}

	idx, ok := stage.ActiveStage(st.Stages, now)
	if !ok {
		return admission{}, models.ErrStageNotActive
	}
	active := st.Stages[idx]

	var walletOverride uint32
	if !active.IsPublic() {
		leaf := allowlist.WalletLeaf(req.Caller)
		if active.VariableWalletLimit {
			if req.ProofLimit == 0 {
				return admission{}, models.ErrInvalidProof
			}
			leaf = allowlist.WalletLimitLeaf(req.Caller, req.ProofLimit)
			walletOverride = req.ProofLimit
		}
		if !allowlist.VerifyHash(active.MerkleRoot, leaf, req.Proof) {
			return admission{}, models.ErrInvalidProof
		}
	}

	cosigned := cfg.HasCosigner()
	if cosigned {
		nonce := st.Ledger.CosignNonces[req.Caller]
		p := cosign.ParamsFor(cfg, req.Caller, req.Quantity, req.Timestamp, nonce)
		if err := cosign.Verify(p, req.Signature, now); err != nil {
			return admission{}, err
		}
	}

	quantity := uint64(req.Quantity)
	required := active.RequiredPayment(quantity)
	paid := req.Payment
	if paid == nil {
		paid = new(big.Int)
	}
	if paid.Cmp(required) < 0 {
		return admission{}, models.ErrInsufficientPayment
	}

	limits := supply.LimitsFor(cfg, active, walletOverride)
	if err := supply.Reserve(&st.Ledger, idx, req.Caller, quantity, limits); err != nil {
		return admission{}, err
	}

	st.Ledger.AdvanceTokenIDs(quantity)
	st.Treasury = new(big.Int).Add(st.Treasury, required)
	if cosigned {
		st.Ledger.CosignNonces[req.Caller]++
	}
	return admission{
		stage:    idx,
		quantity: quantity,
		required: required,
		refund:   new(big.Int).Sub(paid, required),
		cosigned: cosigned,
	}, nil
}

// compensate releases a committed reservation after the asset ledger failed.
// Other mints may have committed in between; releasing only subtracts this
// reservation, so their counters are unaffected. The token ID mark stays.
func (s *Service) compensate(ctx context.Context, req models.MintRequest, adm admission) {
	err := s.serialized(ctx, func(st *models.State) error {
		supply.Release(&st.Ledger, adm.stage, req.Caller, adm.quantity)
		st.Treasury = new(big.Int).Sub(st.Treasury, adm.required)
		if st.Treasury.Sign() < 0 {
			st.Treasury.SetInt64(0)
		}
		if adm.cosigned {
			if n := st.Ledger.CosignNonces[req.Caller]; n > 1 {
				st.Ledger.CosignNonces[req.Caller] = n - 1
			} else {
				delete(st.Ledger.CosignNonces, req.Caller)
			}
		}
		return nil
	})
	if s.metrics != nil {
		s.metrics.IncrementCompensations()
	}
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to release mint reservation",
				"wallet", req.Caller.Hex(),
				"stage", adm.stage,
				"quantity", adm.quantity,
				"error", err,
			)
		}
		return
	}
	s.logAudit(ctx, audit.EventMintCompensated,
		"subject", req.Caller.Hex(),
		"stage", adm.stage,
		"quantity", adm.quantity,
	)
}

func (s *Service) mintRejected(ctx context.Context, span trace.Span, req models.MintRequest, err error, start time.Time) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	reason, ok := models.ReasonOf(err)
	if !ok {
		if s.metrics != nil {
			s.metrics.ObserveMint("failed", time.Since(start))
		}
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "mint failed", "wallet", req.Caller.Hex(), "error", err)
		}
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveMint("rejected", time.Since(start))
		s.metrics.IncrementRejection(reason.String())
	}
	s.logAudit(ctx, audit.EventMintRejected,
		"subject", req.Caller.Hex(),
		"quantity", uint64(req.Quantity),
		"reason", reason,
		"category", string(reason.Category()),
	)
}

// OwnerMint issues quantity tokens to to outside any stage. Only the total
// supply cap applies; stages, allowlists, cosigner and payment are ignored.
func (s *Service) OwnerMint(ctx context.Context, caller, to common.Address, quantity uint64) (models.TokenRange, error) {
	ctx, span := s.tracer.Start(ctx, "mint.OwnerMint")
	defer span.End()

	ctx, release, err := s.enter(ctx)
	if err != nil {
		return models.TokenRange{}, err
	}
	defer release()

	err = s.store.RunInTx(ctx, func(st *models.State) error {
		if err := requireOwner(st, caller); err != nil {
			return err
		}
		if to == (common.Address{}) {
			return dErrors.New(dErrors.CodeValidation, "recipient must be a non-zero address")
		}
		if err := supply.ReserveUnstaged(&st.Ledger, quantity, st.Config.MaxTotalSupply); err != nil {
			return err
		}
		st.Ledger.AdvanceTokenIDs(quantity)
		return nil
	})
	release()
	if err != nil {
		err = translate(err, "failed to commit owner mint")
		s.adminFailed(ctx, "owner_mint", caller, err)
		return models.TokenRange{}, err
	}

	tokens, err := s.assets.Mint(ctx, to, quantity)
	if err != nil {
		cerr := s.serialized(ctx, func(st *models.State) error {
			supply.ReleaseUnstaged(&st.Ledger, quantity)
			return nil
		})
		if s.metrics != nil {
			s.metrics.IncrementCompensations()
		}
		if cerr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to release owner mint reservation", "quantity", quantity, "error", cerr)
		}
		span.RecordError(err)
		return models.TokenRange{}, translate(err, "asset ledger mint failed")
	}

	if s.metrics != nil {
		s.metrics.AddTokensMinted("owner", quantity)
		s.metrics.IncrementAdminAction("owner_mint", "success")
	}
	s.logAudit(ctx, audit.EventOwnerMinted,
		"subject", to.Hex(),
		"quantity", quantity,
		"first_token", tokens.First,
	)
	return tokens, nil
}
