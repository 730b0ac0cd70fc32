// Package stage resolves and replaces the ordered sale stage configuration.
// Functions here are pure over models.State; the service supplies the
// transaction boundary and the clock.
package stage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

// ActiveStage returns the lowest-indexed stage whose window contains now.
// Overlapping windows resolve by configuration order.
func ActiveStage(stages []models.Stage, now int64) (int, bool) {
	for i, st := range stages {
		if st.Contains(now) {
			return i, true
		}
	}
	return -1, false
}

// Validate checks every stage in a replacement list. Overlapping windows are
// accepted.
func Validate(stages []models.Stage) error {
	for i, st := range stages {
		if err := st.Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("stage %d", i))
		}
	}
	return nil
}

// CanReplace rejects replacement once any configured stage has opened, so
// buyers mid-sale never see their terms change.
func CanReplace(current []models.Stage, now int64) error {
	for _, st := range current {
		if st.HasOpened(now) {
			return models.ErrMintingInProgress
		}
	}
	return nil
}

// Replace swaps the whole stage list and resets per-stage counters. The
// counters are necessarily zero because no stage has opened yet.
func Replace(st *models.State, stages []models.Stage, now int64) error {
	if err := Validate(stages); err != nil {
		return err
	}
	if err := CanReplace(st.Stages, now); err != nil {
		return err
	}
	next := make([]models.Stage, len(stages))
	for i, s := range stages {
		next[i] = s.Clone()
	}
	st.Stages = next
	st.Ledger.ResetStages(len(next))
	return nil
}

// Info builds the read model for one stage and wallet.
func Info(st *models.State, index int, wallet common.Address) (models.StageInfo, error) {
	if index < 0 || index >= len(st.Stages) {
		return models.StageInfo{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("stage %d not found", index))
	}
	info := models.StageInfo{Index: index, Stage: st.Stages[index]}
	if index < len(st.Ledger.Stages) {
		counters := st.Ledger.Stages[index]
		info.StageMinted = counters.Minted
		info.WalletMinted = counters.Wallets[wallet]
	}
	return info, nil
}
