// Package asset is an in-memory ownership ledger for minted tokens. Token IDs
// are assigned sequentially, from zero unless the ledger resumes from a
// persisted mark. IDs of an undone mint are never reissued. Transfers consult
// a TransferGate; mints never do.
package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

// TransferGate decides whether ownership transfers are currently allowed.
type TransferGate interface {
	CheckTransfer(ctx context.Context) error
}

// Receiver is notified when it receives a token through a safe mint or a
// safe transfer. Returning an error aborts the operation.
type Receiver interface {
	OnTokenReceived(ctx context.Context, operator, from common.Address, tokenID uint64, data []byte) error
}

type ReceiverFunc func(ctx context.Context, operator, from common.Address, tokenID uint64, data []byte) error

func (f ReceiverFunc) OnTokenReceived(ctx context.Context, operator, from common.Address, tokenID uint64, data []byte) error {
	return f(ctx, operator, from, tokenID, data)
}

type Ledger struct {
	mu        sync.RWMutex
	next      uint64
	owners    map[uint64]common.Address
	balances  map[common.Address]uint64
	approvals map[uint64]common.Address
	operators map[common.Address]map[common.Address]bool
	receivers map[common.Address]Receiver

	gate   TransferGate
	logger *slog.Logger
}

type Option func(*Ledger)

func WithGate(gate TransferGate) Option {
	return func(l *Ledger) {
		l.gate = gate
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithNextTokenID resumes ID assignment at id, for a process restarted over
// persisted supply counters.
func WithNextTokenID(id uint64) Option {
	return func(l *Ledger) {
		l.next = id
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		owners:    make(map[uint64]common.Address),
		balances:  make(map[common.Address]uint64),
		approvals: make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
		receivers: make(map[common.Address]Receiver),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetGate installs the transfer gate after construction, for wiring where
// the gate itself depends on the ledger.
func (l *Ledger) SetGate(gate TransferGate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gate = gate
}

// RegisterReceiver marks addr as a contract-like recipient whose hook runs
// on safe mints and safe transfers.
func (l *Ledger) RegisterReceiver(addr common.Address, r Receiver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.receivers[addr] = r
}

// Mint assigns quantity sequential token IDs to to. If to has a registered
// receiver that rejects any token, the whole mint is undone.
func (l *Ledger) Mint(ctx context.Context, to common.Address, quantity uint64) (models.TokenRange, error) {
	if to == (common.Address{}) {
		return models.TokenRange{}, dErrors.New(dErrors.CodeValidation, "cannot mint to the zero address")
	}
	if quantity == 0 {
		return models.TokenRange{}, models.ErrInvalidQuantity
	}

	l.mu.Lock()
	first := l.next
	for id := first; id < first+quantity; id++ {
		l.owners[id] = to
	}
	l.balances[to] += quantity
	l.next = first + quantity
	receiver := l.receivers[to]
	l.mu.Unlock()

	tokens := models.TokenRange{First: first, Count: quantity}
	if receiver == nil {
		return tokens, nil
	}
	for id := first; id < first+quantity; id++ {
		if err := receiver.OnTokenReceived(ctx, common.Address{}, common.Address{}, id, nil); err != nil {
			l.burnRange(tokens)
			return models.TokenRange{}, dErrors.Wrap(err, dErrors.CodeForbidden, "receiver rejected minted token")
		}
	}
	return tokens, nil
}

func (l *Ledger) burnRange(r models.TokenRange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := r.First; id <= r.Last(); id++ {
		owner, ok := l.owners[id]
		if !ok {
			continue
		}
		l.balances[owner]--
		delete(l.owners, id)
		delete(l.approvals, id)
	}
}

// NextTokenID returns the ID the next mint will start at.
func (l *Ledger) NextTokenID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.next
}

// OwnerOf returns the holder of tokenID.
func (l *Ledger) OwnerOf(_ context.Context, tokenID uint64) (common.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[tokenID]
	if !ok {
		return common.Address{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("token %d does not exist", tokenID))
	}
	return owner, nil
}

// BalanceOf returns how many tokens owner holds.
func (l *Ledger) BalanceOf(_ context.Context, owner common.Address) (uint64, error) {
	if owner == (common.Address{}) {
		return 0, dErrors.New(dErrors.CodeValidation, "balance query for the zero address")
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[owner], nil
}

// TotalSupply returns the number of tokens in existence.
func (l *Ledger) TotalSupply(_ context.Context) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.owners))
}

// Approve lets approved move tokenID. caller must own the token or be an
// approved operator of its owner.
func (l *Ledger) Approve(_ context.Context, caller, approved common.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[tokenID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("token %d does not exist", tokenID))
	}
	if caller != owner && !l.operators[owner][caller] {
		return dErrors.New(dErrors.CodeForbidden, "caller is not token owner or approved operator")
	}
	l.approvals[tokenID] = approved
	return nil
}

// GetApproved returns the single-token approval for tokenID.
func (l *Ledger) GetApproved(_ context.Context, tokenID uint64) (common.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.owners[tokenID]; !ok {
		return common.Address{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("token %d does not exist", tokenID))
	}
	return l.approvals[tokenID], nil
}

// SetApprovalForAll grants or revokes operator rights over all of owner's tokens.
func (l *Ledger) SetApprovalForAll(_ context.Context, owner, operator common.Address, approved bool) error {
	if owner == operator {
		return dErrors.New(dErrors.CodeValidation, "cannot approve self as operator")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ops := l.operators[owner]
	if ops == nil {
		ops = make(map[common.Address]bool)
		l.operators[owner] = ops
	}
	if approved {
		ops[operator] = true
	} else {
		delete(ops, operator)
	}
	return nil
}

// IsApprovedForAll reports whether operator may move all of owner's tokens.
func (l *Ledger) IsApprovedForAll(_ context.Context, owner, operator common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operators[owner][operator]
}

// TransferFrom moves tokenID from from to to on behalf of caller.
func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64) error {
	if err := l.checkGate(ctx); err != nil {
		return err
	}
	return l.transfer(caller, from, to, tokenID)
}

// SafeTransferFrom is TransferFrom followed by the recipient's receiver
// hook; a rejecting hook reverts the transfer. data may be nil.
func (l *Ledger) SafeTransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64, data []byte) error {
	if err := l.checkGate(ctx); err != nil {
		return err
	}
	if err := l.transfer(caller, from, to, tokenID); err != nil {
		return err
	}

	l.mu.RLock()
	receiver := l.receivers[to]
	l.mu.RUnlock()
	if receiver == nil {
		return nil
	}
	if err := receiver.OnTokenReceived(ctx, caller, from, tokenID, data); err != nil {
		l.revert(from, to, tokenID)
		return dErrors.Wrap(err, dErrors.CodeForbidden, "receiver rejected transferred token")
	}
	return nil
}

func (l *Ledger) checkGate(ctx context.Context) error {
	l.mu.RLock()
	gate := l.gate
	l.mu.RUnlock()
	if gate == nil {
		return nil
	}
	if err := gate.CheckTransfer(ctx); err != nil {
		if l.logger != nil {
			l.logger.InfoContext(ctx, "transfer blocked by gate", "error", err)
		}
		return err
	}
	return nil
}

func (l *Ledger) transfer(caller, from, to common.Address, tokenID uint64) error {
	if to == (common.Address{}) {
		return dErrors.New(dErrors.CodeValidation, "cannot transfer to the zero address")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.owners[tokenID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("token %d does not exist", tokenID))
	}
	if owner != from {
		return dErrors.New(dErrors.CodeValidation, "from is not the token owner")
	}
	if caller != owner && l.approvals[tokenID] != caller && !l.operators[owner][caller] {
		return dErrors.New(dErrors.CodeForbidden, "caller is not token owner or approved")
	}

	delete(l.approvals, tokenID)
	l.balances[from]--
	l.balances[to]++
	l.owners[tokenID] = to
	return nil
}

func (l *Ledger) revert(from, to common.Address, tokenID uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owners[tokenID] != to {
		return
	}
	l.balances[to]--
	l.balances[from]++
	l.owners[tokenID] = from
}
