package service

import (
	"context"
	"errors"
	"math/big"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"

	"mintgate/internal/asset"
	"mintgate/internal/mint/allowlist"
	"mintgate/internal/mint/cosign"
	"mintgate/internal/mint/models"
	"mintgate/internal/mint/ports/mocks"
	"mintgate/internal/mint/store/memory"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/audit"
)

// =============================================================================
// Reference scenarios
// =============================================================================

func (s *ServiceSuite) TestMint_StageSupplyScenario() {
	s.openSale(s.publicStage())
	ctx := s.at(stageStart + 5)

	receipt, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 2, Payment: eth(50)})
	s.Require().NoError(err)
	s.Equal(0, receipt.Stage)
	s.Equal(models.TokenRange{First: 0, Count: 2}, receipt.Tokens)
	s.Equal(0, receipt.Paid.Cmp(eth(1)))
	s.Equal(0, receipt.Refund.Cmp(eth(49)))

	for _, id := range []uint64{0, 1} {
		owner, err := s.assets.OwnerOf(ctx, id)
		s.Require().NoError(err)
		s.Equal(s.buyer, owner)
	}

	info, err := s.service.StageInfo(ctx, 0, s.buyer)
	s.Require().NoError(err)
	s.Equal(uint64(2), info.StageMinted)

	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 4, Payment: eth(50)})
	s.ErrorIs(err, models.ErrStageSupplyExceeded)

	info, err = s.service.StageInfo(ctx, 0, s.buyer)
	s.Require().NoError(err)
	s.Equal(uint64(2), info.StageMinted)

	treasury, err := s.service.Treasury(ctx)
	s.Require().NoError(err)
	s.Equal(0, treasury.Cmp(eth(1)), "only the required amount is collected")
}

func (s *ServiceSuite) TestMint_NotMintableUntilEnabled() {
	ctx := s.at(baseTime)
	s.Require().NoError(s.service.ReplaceStages(ctx, s.owner, []models.Stage{s.publicStage()}))

	req := models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1)}
	_, err := s.service.Mint(s.at(stageStart+1), req)
	s.ErrorIs(err, models.ErrNotMintable)

	s.Require().NoError(s.service.SetMintingEnabled(ctx, s.owner, true))
	_, err = s.service.Mint(s.at(stageStart+1), req)
	s.NoError(err)
}

func (s *ServiceSuite) TestMint_PauseBlocksTransfersOnly() {
	s.openSale(s.publicStage())
	ctx := s.at(stageStart + 1)

	s.Require().NoError(s.service.Pause(ctx, s.owner))

	_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 2, Payment: eth(50)})
	s.Require().NoError(err, "minting is never gated")

	err = s.assets.TransferFrom(ctx, s.buyer, s.buyer, s.receiver, 0)
	s.ErrorIs(err, models.ErrPaused)
	s.ErrorIs(s.assets.SafeTransferFrom(ctx, s.buyer, s.buyer, s.receiver, 0, nil), models.ErrPaused)
	s.ErrorIs(s.assets.SafeTransferFrom(ctx, s.buyer, s.buyer, s.receiver, 0, []byte{}), models.ErrPaused)

	before, err := s.service.Supply(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Unpause(ctx, s.owner))
	s.Require().NoError(s.assets.TransferFrom(ctx, s.buyer, s.buyer, s.receiver, 0))
	s.Require().NoError(s.assets.SafeTransferFrom(ctx, s.buyer, s.buyer, s.receiver, 1, []byte{}))

	owner, err := s.assets.OwnerOf(ctx, 0)
	s.Require().NoError(err)
	s.Equal(s.receiver, owner)

	after, err := s.service.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(before.TotalMinted, after.TotalMinted)
	s.False(after.Paused)
	s.Contains(s.auditActions(), string(audit.EventTransferRejected))
}

// =============================================================================
// Ordered checks
// =============================================================================

func (s *ServiceSuite) TestMint_CheckOrder() {
	s.Run("minting disabled wins over missing stage", func() {
		_, err := s.service.Mint(s.at(baseTime), models.MintRequest{Caller: s.buyer, Quantity: 0})
		s.ErrorIs(err, models.ErrNotMintable)
	})

	s.Run("zero quantity", func() {
		s.SetupTest()
		s.openSale(s.publicStage())
		_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 0})
		s.ErrorIs(err, models.ErrInvalidQuantity)
	})

	s.Run("before and after the window", func() {
		s.SetupTest()
		s.openSale(s.publicStage())
		req := models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1)}

		_, err := s.service.Mint(s.at(stageStart-1), req)
		s.ErrorIs(err, models.ErrStageNotActive)
		_, err = s.service.Mint(s.at(stageEnd), req)
		s.ErrorIs(err, models.ErrStageNotActive, "end time is exclusive")
	})

	s.Run("insufficient payment before supply", func() {
		s.SetupTest()
		s.openSale(s.publicStage())
		_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 9, Payment: big.NewInt(1)})
		s.ErrorIs(err, models.ErrInsufficientPayment)
	})

	s.Run("exact payment and nil payment on a free stage", func() {
		s.SetupTest()
		free, err := models.NewStage(nil, 0, 0, common.Hash{}, stageStart, stageEnd)
		s.Require().NoError(err)
		s.openSale(free)

		receipt, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 3})
		s.Require().NoError(err)
		s.Equal(0, receipt.Paid.Sign())
		s.Equal(0, receipt.Refund.Sign())
	})
}

func (s *ServiceSuite) TestMint_RejectionsLeaveStateUntouched() {
	tree, err := allowlist.NewWalletTree([]common.Address{s.receiver})
	s.Require().NoError(err)
	gated, err := models.NewStage(halfEth(), 1, 5, tree.Root(), stageStart, stageEnd)
	s.Require().NoError(err)
	s.openSale(gated)
	ctx := s.at(stageStart)

	proof, err := tree.Proof(allowlist.WalletLeaf(s.receiver))
	s.Require().NoError(err)
	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: eth(1), Proof: proof})
	s.Require().NoError(err)

	cases := []struct {
		name string
		req  models.MintRequest
		want error
	}{
		{"not allowlisted", models.MintRequest{Caller: s.stranger, Quantity: 1, Payment: eth(1), Proof: proof}, models.ErrInvalidProof},
		{"underpaid", models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: big.NewInt(1), Proof: proof}, models.ErrInsufficientPayment},
		{"stage wallet limit", models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: eth(1), Proof: proof}, models.ErrStageWalletLimitExceeded},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			before := s.snapshot()
			supplyBefore := s.assets.TotalSupply(ctx)

			_, err := s.service.Mint(ctx, tc.req)
			s.ErrorIs(err, tc.want)
			s.Equal(before, s.snapshot())
			s.Equal(supplyBefore, s.assets.TotalSupply(ctx))
		})
	}
}

// =============================================================================
// Eligibility
// =============================================================================

func (s *ServiceSuite) TestMint_Allowlist() {
	wallets := []common.Address{s.buyer, s.receiver, common.HexToAddress("0x0e")}
	tree, err := allowlist.NewWalletTree(wallets)
	s.Require().NoError(err)
	stage, err := models.NewStage(big.NewInt(0), 0, 0, tree.Root(), stageStart, stageEnd)
	s.Require().NoError(err)
	s.openSale(stage)
	ctx := s.at(stageStart)

	proof, err := tree.Proof(allowlist.WalletLeaf(s.buyer))
	s.Require().NoError(err)

	s.Run("bit flip in proof is rejected", func() {
		bad := make([][]byte, len(proof))
		for i := range proof {
			bad[i] = append([]byte{}, proof[i]...)
		}
		bad[0][31] ^= 0x01
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Proof: bad})
		s.ErrorIs(err, models.ErrInvalidProof)
	})

	s.Run("wrong wallet is rejected", func() {
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.stranger, Quantity: 1, Proof: proof})
		s.ErrorIs(err, models.ErrInvalidProof)
	})

	s.Run("member with valid proof is accepted", func() {
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Proof: proof})
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestMint_VariableWalletLimit() {
	leaves := []common.Hash{
		allowlist.WalletLimitLeaf(s.buyer, 3),
		allowlist.WalletLimitLeaf(s.receiver, 1),
	}
	tree, err := allowlist.NewTree(leaves)
	s.Require().NoError(err)
	stage, err := models.NewStage(big.NewInt(0), 1, 0, tree.Root(), stageStart, stageEnd)
	s.Require().NoError(err)
	stage.VariableWalletLimit = true
	s.openSale(stage)
	ctx := s.at(stageStart)

	proof, err := tree.Proof(allowlist.WalletLimitLeaf(s.buyer, 3))
	s.Require().NoError(err)

	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 3, Proof: proof, ProofLimit: 3})
	s.Require().NoError(err, "proven limit replaces the stage limit")

	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Proof: proof, ProofLimit: 3})
	s.ErrorIs(err, models.ErrStageWalletLimitExceeded)

	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Proof: proof, ProofLimit: 4})
	s.ErrorIs(err, models.ErrInvalidProof, "claimed limit must match the leaf")

	_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Proof: proof})
	s.ErrorIs(err, models.ErrInvalidProof)
}

func (s *ServiceSuite) TestMint_Cosigner() {
	signer, err := cosign.GenerateSigner()
	s.Require().NoError(err)
	s.openSale(s.publicStage())
	s.Require().NoError(s.service.SetCosigner(s.at(baseTime), s.owner, signer.Address()))

	now := stageStart + 60
	ctx := s.at(now)
	cfg, err := s.service.Config(ctx)
	s.Require().NoError(err)

	sign := func(qty uint32, ts, nonce uint64) []byte {
		sig, err := signer.Sign(cosign.ParamsFor(cfg, s.buyer, qty, ts, nonce))
		s.Require().NoError(err)
		return sig
	}

	s.Run("digest matches what the signer signs", func() {
		digest, err := s.service.CosignDigest(ctx, s.buyer, 1, uint64(now))
		s.Require().NoError(err)
		s.Equal(cosign.Digest(cosign.ParamsFor(cfg, s.buyer, 1, uint64(now), 0)), digest)
	})

	s.Run("missing signature", func() {
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1), Timestamp: uint64(now)})
		s.ErrorIs(err, models.ErrInvalidSignature)
	})

	s.Run("stale signature", func() {
		ts := uint64(now - 301)
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1), Timestamp: ts, Signature: sign(1, ts, 0)})
		s.ErrorIs(err, models.ErrSignatureExpired)
	})

	s.Run("signature for another quantity", func() {
		ts := uint64(now)
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 2, Payment: eth(1), Timestamp: ts, Signature: sign(1, ts, 0)})
		s.ErrorIs(err, models.ErrInvalidSignature)
	})

	s.Run("valid signature consumes the nonce", func() {
		ts := uint64(now)
		sig := sign(1, ts, 0)
		_, err := s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1), Timestamp: ts, Signature: sig})
		s.Require().NoError(err)

		nonce, err := s.service.CosignNonce(ctx, s.buyer)
		s.Require().NoError(err)
		s.Equal(uint64(1), nonce)

		_, err = s.service.Mint(ctx, models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1), Timestamp: ts, Signature: sig})
		s.ErrorIs(err, models.ErrInvalidSignature, "replay is rejected")
	})
}

// =============================================================================
// Capacity
// =============================================================================

func (s *ServiceSuite) TestMint_CapInvariant() {
	cfg, err := models.NewConfig(40, 7, common.Address{}, 0)
	s.Require().NoError(err)
	st, err := models.NewState(s.owner, cfg)
	s.Require().NoError(err)
	s.store = memory.New(st)
	s.assets = asset.New()
	s.service = New(s.store, s.assets)

	first, err := models.NewStage(big.NewInt(0), 4, 25, common.Hash{}, stageStart, stageStart+100)
	s.Require().NoError(err)
	second, err := models.NewStage(big.NewInt(0), 5, 0, common.Hash{}, stageStart+100, stageEnd)
	s.Require().NoError(err)
	s.openSale(first, second)

	wallets := make([]common.Address, 12)
	for i := range wallets {
		wallets[i] = common.BigToAddress(big.NewInt(int64(0x100 + i)))
	}

	rng := rand.New(rand.NewPCG(7, 11))
	for range 400 {
		now := stageStart + rng.Int64N(stageEnd-stageStart)
		req := models.MintRequest{
			Caller:   wallets[rng.IntN(len(wallets))],
			Quantity: uint32(rng.IntN(6)),
		}
		_, _ = s.service.Mint(s.at(now), req)

		state, err := s.store.Load(s.at(now))
		s.Require().NoError(err)
		s.LessOrEqual(state.Ledger.TotalMinted, cfg.MaxTotalSupply)
		s.LessOrEqual(state.Ledger.Stages[0].Minted, first.MaxStageSupply)
		for _, w := range wallets {
			s.LessOrEqual(state.Ledger.Wallets[w], cfg.GlobalWalletLimit)
			s.LessOrEqual(state.Ledger.Stages[0].Wallets[w], uint64(first.WalletLimit))
			s.LessOrEqual(state.Ledger.Stages[1].Wallets[w], uint64(second.WalletLimit))
		}
		s.Equal(state.Ledger.TotalMinted, s.assets.TotalSupply(s.at(now)))
	}
}

func (s *ServiceSuite) TestMint_ConcurrentRequestsRespectStageCap() {
	s.openSale(s.publicStage())
	const callers = 20
	stageCap := s.publicStage().MaxStageSupply

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wallet := common.BigToAddress(big.NewInt(int64(0x200 + i)))
			_, errs[i] = s.service.Mint(s.at(stageStart), models.MintRequest{Caller: wallet, Quantity: 1, Payment: eth(1)})
		}()
	}
	wg.Wait()

	var succeeded uint64
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, models.ErrStageSupplyExceeded)
	}
	s.Equal(stageCap, succeeded)

	state, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(stageCap, state.Ledger.TotalMinted)
	s.Equal(stageCap, state.Ledger.Stages[0].Minted)
	s.Equal(stageCap, s.assets.TotalSupply(context.Background()))
	s.Equal(0, state.Treasury.Cmp(new(big.Int).Mul(halfEth(), new(big.Int).SetUint64(stageCap))))
}

func (s *ServiceSuite) TestMint_ResumesTokenIDsOverPersistedState() {
	s.openSale(s.publicStage())
	_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 2, Payment: eth(1)})
	s.Require().NoError(err)

	state, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(2), state.Ledger.NextTokenID())

	restarted := New(s.store, asset.New(asset.WithNextTokenID(state.Ledger.NextTokenID())))
	receipt, err := restarted.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1)})
	s.Require().NoError(err)
	s.Equal(models.TokenRange{First: 2, Count: 1}, receipt.Tokens)
}

func (s *ServiceSuite) TestMint_OverlappingStagesLowestIndexWins() {
	a, err := models.NewStage(big.NewInt(1), 0, 0, common.Hash{}, stageStart, stageEnd)
	s.Require().NoError(err)
	b, err := models.NewStage(big.NewInt(0), 0, 0, common.Hash{}, stageStart-5, stageEnd)
	s.Require().NoError(err)
	s.openSale(a, b)

	for range 3 {
		idx, err := s.service.ActiveStage(s.at(stageStart+1), stageStart+1)
		s.Require().NoError(err)
		s.Equal(0, idx)
	}
	idx, err := s.service.ActiveStage(s.at(stageStart-1), stageStart-1)
	s.Require().NoError(err)
	s.Equal(1, idx)
}

// =============================================================================
// External ledger interaction
// =============================================================================

func (s *ServiceSuite) TestMint_ReentrantCallFromReceiverHook() {
	s.openSale(s.publicStage())
	ctx := s.at(stageStart)

	var inner error
	var observed uint64
	s.assets.RegisterReceiver(s.receiver, asset.ReceiverFunc(func(ctx context.Context, _, _ common.Address, _ uint64, _ []byte) error {
		_, inner = s.service.Mint(ctx, models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: eth(1)})
		_, ownerErr := s.service.OwnerMint(ctx, s.owner, s.receiver, 1)
		s.ErrorIs(ownerErr, models.ErrReentrantCall)
		observed, _ = s.service.TotalMintedByAddress(ctx, s.receiver)
		return nil
	}))

	receipt, err := s.service.Mint(ctx, models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: eth(1)})
	s.Require().NoError(err)
	s.ErrorIs(inner, models.ErrReentrantCall)
	s.Equal(uint64(1), receipt.Tokens.Count)
	s.Equal(uint64(1), observed, "counters are committed before the external call")

	minted, err := s.service.TotalMintedByAddress(ctx, s.receiver)
	s.Require().NoError(err)
	s.Equal(uint64(1), minted)
}

func (s *ServiceSuite) TestMint_ReceiverHookCallingBackWithFreshContext() {
	s.openSale(s.publicStage())

	var (
		once  sync.Once
		inner *models.MintReceipt
		ierr  error
	)
	s.assets.RegisterReceiver(s.receiver, asset.ReceiverFunc(func(context.Context, common.Address, common.Address, uint64, []byte) error {
		once.Do(func() {
			inner, ierr = s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 1, Payment: eth(1)})
		})
		return nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.receiver, Quantity: 1, Payment: eth(1)})
		done <- err
	}()
	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("outer mint did not return while its receiver hook minted")
	}

	s.Require().NoError(ierr)
	s.Equal(models.TokenRange{First: 1, Count: 1}, inner.Tokens)
	s.NoError(s.service.Pause(s.at(stageStart), s.owner), "admin operations are still served")

	summary, err := s.service.Supply(s.at(stageStart))
	s.Require().NoError(err)
	s.Equal(uint64(2), summary.TotalMinted)
}

func (s *ServiceSuite) TestMint_AssetLedgerFailureIsCompensated() {
	ctrl := gomock.NewController(s.T())
	assets := mocks.NewMockAssetLedger(ctrl)
	publisher := mocks.NewMockAuditPublisher(ctrl)

	signer, err := cosign.GenerateSigner()
	s.Require().NoError(err)
	s.service = New(s.store, assets, WithAuditPublisher(publisher))
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.openSale(s.publicStage())
	s.Require().NoError(s.service.SetCosigner(s.at(baseTime), s.owner, signer.Address()))
	ctx := s.at(stageStart)
	before := s.snapshot()

	cfg, err := s.service.Config(ctx)
	s.Require().NoError(err)
	sig, err := signer.Sign(cosign.ParamsFor(cfg, s.buyer, 2, uint64(stageStart), 0))
	s.Require().NoError(err)

	ledgerDown := errors.New("ledger unavailable")
	assets.EXPECT().Mint(gomock.Any(), s.buyer, uint64(2)).Return(models.TokenRange{}, ledgerDown)

	_, err = s.service.Mint(ctx, models.MintRequest{
		Caller: s.buyer, Quantity: 2, Payment: eth(1),
		Timestamp: uint64(stageStart), Signature: sig,
	})
	s.Require().Error(err)
	s.ErrorIs(err, ledgerDown)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(before, s.snapshotWithout(func(st *models.State) {
		s.Equal(uint64(2), st.Ledger.TokenIDMark, "the ids handed to the ledger stay burned")
		st.Ledger.TokenIDMark = 0
	}), "reservation, treasury and nonce are released")

	assets.EXPECT().Mint(gomock.Any(), s.buyer, uint64(2)).Return(models.TokenRange{First: 0, Count: 2}, nil)
	_, err = s.service.Mint(ctx, models.MintRequest{
		Caller: s.buyer, Quantity: 2, Payment: eth(1),
		Timestamp: uint64(stageStart), Signature: sig,
	})
	s.NoError(err, "the same authorization is still usable after compensation")
}

func (s *ServiceSuite) TestMint_StoreFailureIsInternal() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStateStore(ctrl)
	assets := mocks.NewMockAssetLedger(ctrl)
	s.service = New(st, assets)

	st.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 1})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	_, isRejection := models.ReasonOf(err)
	s.False(isRejection)
}
