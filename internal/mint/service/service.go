// Package service is the mint authorization engine. It owns the ordered
// admission checks for public mints, the owner-only administrative surface
// and the transfer gate. Every state change is serialized behind one mutex
// and committed through a ports.StateStore transaction. The mutex is never
// held across the asset ledger call, whose receiver hooks may call back in.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mintgate/internal/mint/cosign"
	"mintgate/internal/mint/metrics"
	"mintgate/internal/mint/models"
	"mintgate/internal/mint/ports"
	"mintgate/internal/mint/stage"
	"mintgate/internal/mint/supply"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/audit"
	"mintgate/pkg/platform/sentinel"
	"mintgate/pkg/requestcontext"
)

const tracerName = "mintgate/internal/mint/service"

// Service orchestrates stage resolution, allowlist and cosigner checks,
// payment, supply accounting and the external asset mint.
type Service struct {
	store          ports.StateStore
	assets         ports.AssetLedger
	logger         *slog.Logger
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer

	// mu serializes every mutating request.
	mu sync.Mutex
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service over a state store and the asset ledger that
// assigns token IDs.
func New(store ports.StateStore, assets ports.AssetLedger, opts ...Option) *Service {
	s := &Service{store: store, assets: assets}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

type inFlightKey struct{}

// enter acquires the service mutex and marks ctx as carrying an in-flight
// mutation. A ctx that already carries the mark is a reentrant call and is
// rejected before touching the mutex. The returned release may be called
// more than once, so a caller can drop the mutex before an external call and
// still defer it.
func (s *Service) enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(inFlightKey{}) != nil {
		return ctx, func() {}, models.ErrReentrantCall
	}
	s.mu.Lock()
	var once sync.Once
	return context.WithValue(ctx, inFlightKey{}, true), func() { once.Do(s.mu.Unlock) }, nil
}

// serialized runs fn as its own store transaction under the service mutex.
// The caller must not hold the mutex.
func (s *Service) serialized(ctx context.Context, fn func(st *models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RunInTx(ctx, fn)
}

func (s *Service) load(ctx context.Context) (*models.State, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mint state")
	}
	return st, nil
}

// translate keeps rejections intact and wraps anything else as internal.
func translate(err error, msg string) error {
	if _, ok := models.ReasonOf(err); ok {
		return err
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "state changed concurrently, retry the request")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// -----------------------------------------------------------------------------
// Read operations
// -----------------------------------------------------------------------------

// Stages returns the configured stage list in order.
func (s *Service) Stages(ctx context.Context) ([]models.Stage, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.Stages, nil
}

// StageInfo returns one stage with its counters for wallet.
func (s *Service) StageInfo(ctx context.Context, index int, wallet common.Address) (models.StageInfo, error) {
	st, err := s.load(ctx)
	if err != nil {
		return models.StageInfo{}, err
	}
	return stage.Info(st, index, wallet)
}

// ActiveStage returns the index of the stage open at now, or
// StageNotActive.
func (s *Service) ActiveStage(ctx context.Context, now int64) (int, error) {
	st, err := s.load(ctx)
	if err != nil {
		return -1, err
	}
	idx, ok := stage.ActiveStage(st.Stages, now)
	if !ok {
		return -1, models.ErrStageNotActive
	}
	return idx, nil
}

// Supply summarizes issuance progress at the request time.
func (s *Service) Supply(ctx context.Context) (models.SupplySummary, error) {
	st, err := s.load(ctx)
	if err != nil {
		return models.SupplySummary{}, err
	}
	summary := models.SupplySummary{
		MaxTotalSupply:    st.Config.MaxTotalSupply,
		TotalMinted:       st.Ledger.TotalMinted,
		GlobalWalletLimit: st.Config.GlobalWalletLimit,
		MintingEnabled:    st.Config.MintingEnabled,
		Paused:            st.Paused,
		CosignerEnabled:   st.Config.HasCosigner(),
	}
	if idx, ok := stage.ActiveStage(st.Stages, requestcontext.Now(ctx).Unix()); ok {
		summary.ActiveStage = &idx
	}
	return summary, nil
}

// Config returns the collection configuration.
func (s *Service) Config(ctx context.Context) (models.Config, error) {
	st, err := s.load(ctx)
	if err != nil {
		return models.Config{}, err
	}
	return st.Config, nil
}

// Owner returns the current privileged identity.
func (s *Service) Owner(ctx context.Context) (common.Address, error) {
	st, err := s.load(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return st.Owner, nil
}

// TotalMintedByAddress returns the wallet's issued count across stages.
func (s *Service) TotalMintedByAddress(ctx context.Context, wallet common.Address) (uint64, error) {
	st, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return supply.WalletMinted(&st.Ledger, wallet), nil
}

// CosignNonce returns the nonce the next cosigner authorization for wallet
// must bind.
func (s *Service) CosignNonce(ctx context.Context, wallet common.Address) (uint64, error) {
	st, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return st.Ledger.CosignNonces[wallet], nil
}

// CosignDigest returns the digest the cosigner must sign to authorize
// quantity tokens for wallet at timestamp.
func (s *Service) CosignDigest(ctx context.Context, wallet common.Address, quantity uint32, timestamp uint64) (common.Hash, error) {
	st, err := s.load(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	p := cosign.ParamsFor(st.Config, wallet, quantity, timestamp, st.Ledger.CosignNonces[wallet])
	return cosign.Digest(p), nil
}

// Treasury returns the collected and not yet withdrawn payments.
func (s *Service) Treasury(ctx context.Context) (*big.Int, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.Treasury, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attrs ...any) {
	ports.LogAudit(ctx, s.logger, s.auditPublisher, event, attrs...)
}
