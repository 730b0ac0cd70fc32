package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/internal/mint/models"
	"mintgate/pkg/platform/sentinel"
)

func initialState(t *testing.T) *models.State {
	t.Helper()
	cfg, err := models.NewConfig(100, 0, common.Address{}, 0)
	require.NoError(t, err)
	st, err := models.NewState(common.HexToAddress("0x01"), cfg)
	require.NoError(t, err)
	return st
}

func TestStore_RunInTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := New(initialState(t))

	err := s.RunInTx(ctx, func(st *models.State) error {
		st.Ledger.TotalMinted = 7
		return nil
	})
	require.NoError(t, err)

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), st.Ledger.TotalMinted)
}

func TestStore_RunInTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := New(initialState(t))
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(st *models.State) error {
		st.Ledger.TotalMinted = 7
		st.Paused = true
		return boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), st.Ledger.TotalMinted)
	assert.False(t, st.Paused)
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(initialState(t))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	st.Ledger.Wallets[common.HexToAddress("0x02")] = 5

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Ledger.Wallets)
}

func TestStore_EmptyUntilInit(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.Init(ctx, initialState(t)))
	require.NoError(t, s.Init(ctx, &models.State{Owner: common.HexToAddress("0x09")}))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x01"), st.Owner)
}
