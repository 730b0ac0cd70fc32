package models

import (
	dErrors "mintgate/pkg/domain-errors"
)

// Category groups rejections by the kind of condition that failed.
type Category string

const (
	CategoryAuthorization Category = "authorization"
	CategoryTiming        Category = "timing"
	CategoryEligibility   Category = "eligibility"
	CategoryCapacity      Category = "capacity"
	CategoryPayment       Category = "payment"
	CategoryState         Category = "state"
	CategoryValidation    Category = "validation"
)

// Reason is the stable identifier of a rejection, surfaced verbatim to callers.
type Reason string

const (
	ReasonNotOwner                 Reason = "NotOwner"
	ReasonNotMintable              Reason = "NotMintable"
	ReasonStageNotActive           Reason = "StageNotActive"
	ReasonSignatureExpired         Reason = "SignatureExpired"
	ReasonInvalidProof             Reason = "InvalidProof"
	ReasonInvalidSignature         Reason = "InvalidSignature"
	ReasonGlobalSupplyExceeded     Reason = "GlobalSupplyExceeded"
	ReasonStageSupplyExceeded      Reason = "StageSupplyExceeded"
	ReasonWalletLimitExceeded      Reason = "WalletLimitExceeded"
	ReasonStageWalletLimitExceeded Reason = "StageWalletLimitExceeded"
	ReasonInsufficientPayment      Reason = "InsufficientPayment"
	ReasonPaused                   Reason = "Paused"
	ReasonNotPaused                Reason = "NotPaused"
	ReasonMintingInProgress        Reason = "MintingInProgress"
	ReasonReentrantCall            Reason = "ReentrantCall"
	ReasonInvalidQuantity          Reason = "InvalidQuantity"
	ReasonInvalidStageWindow       Reason = "InvalidStageWindow"
	ReasonInvalidWalletLimit       Reason = "InvalidWalletLimit"
	ReasonInvalidOwner             Reason = "InvalidOwner"
)

var categories = map[Reason]Category{
	ReasonNotOwner:                 CategoryAuthorization,
	ReasonNotMintable:              CategoryAuthorization,
	ReasonStageNotActive:           CategoryTiming,
	ReasonSignatureExpired:         CategoryTiming,
	ReasonInvalidProof:             CategoryEligibility,
	ReasonInvalidSignature:         CategoryEligibility,
	ReasonGlobalSupplyExceeded:     CategoryCapacity,
	ReasonStageSupplyExceeded:      CategoryCapacity,
	ReasonWalletLimitExceeded:      CategoryCapacity,
	ReasonStageWalletLimitExceeded: CategoryCapacity,
	ReasonInsufficientPayment:      CategoryPayment,
	ReasonPaused:                   CategoryState,
	ReasonNotPaused:                CategoryState,
	ReasonMintingInProgress:        CategoryState,
	ReasonReentrantCall:            CategoryState,
	ReasonInvalidQuantity:          CategoryValidation,
	ReasonInvalidStageWindow:       CategoryValidation,
	ReasonInvalidWalletLimit:       CategoryValidation,
	ReasonInvalidOwner:             CategoryValidation,
}

// Category returns the taxonomy group of the reason.
func (r Reason) Category() Category {
	return categories[r]
}

func (r Reason) String() string {
	return string(r)
}

// Rejections. Services return these values unwrapped so callers can match
// them with errors.Is.
var (
	ErrNotOwner                 = reject(dErrors.CodeForbidden, ReasonNotOwner, "caller is not the owner")
	ErrNotMintable              = reject(dErrors.CodeForbidden, ReasonNotMintable, "minting is not enabled")
	ErrStageNotActive           = reject(dErrors.CodeInvalidState, ReasonStageNotActive, "no sale stage is active")
	ErrSignatureExpired         = reject(dErrors.CodeUnauthorized, ReasonSignatureExpired, "cosigner signature has expired")
	ErrInvalidProof             = reject(dErrors.CodeForbidden, ReasonInvalidProof, "allowlist proof is invalid")
	ErrInvalidSignature         = reject(dErrors.CodeUnauthorized, ReasonInvalidSignature, "cosigner signature is invalid")
	ErrGlobalSupplyExceeded     = reject(dErrors.CodeConflict, ReasonGlobalSupplyExceeded, "quantity exceeds remaining total supply")
	ErrStageSupplyExceeded      = reject(dErrors.CodeConflict, ReasonStageSupplyExceeded, "quantity exceeds remaining stage supply")
	ErrWalletLimitExceeded      = reject(dErrors.CodeConflict, ReasonWalletLimitExceeded, "quantity exceeds global wallet limit")
	ErrStageWalletLimitExceeded = reject(dErrors.CodeConflict, ReasonStageWalletLimitExceeded, "quantity exceeds stage wallet limit")
	ErrInsufficientPayment      = reject(dErrors.CodePaymentRequired, ReasonInsufficientPayment, "payment is below the required amount")
	ErrPaused                   = reject(dErrors.CodeInvalidState, ReasonPaused, "transfers are paused")
	ErrNotPaused                = reject(dErrors.CodeInvalidState, ReasonNotPaused, "transfers are not paused")
	ErrMintingInProgress        = reject(dErrors.CodeInvalidState, ReasonMintingInProgress, "a sale stage has already opened")
	ErrReentrantCall            = reject(dErrors.CodeInvalidState, ReasonReentrantCall, "reentrant call rejected")
	ErrInvalidQuantity          = reject(dErrors.CodeValidation, ReasonInvalidQuantity, "quantity must be at least 1")
	ErrInvalidStageWindow       = reject(dErrors.CodeValidation, ReasonInvalidStageWindow, "stage start time must be before end time")
	ErrInvalidWalletLimit       = reject(dErrors.CodeValidation, ReasonInvalidWalletLimit, "wallet limit exceeds max total supply")
	ErrInvalidOwner             = reject(dErrors.CodeValidation, ReasonInvalidOwner, "owner must be a non-zero address")
)

func reject(code dErrors.Code, reason Reason, message string) *dErrors.Error {
	return dErrors.NewReason(code, string(reason), message)
}

// ReasonOf extracts the rejection reason from an error chain, if any.
func ReasonOf(err error) (Reason, bool) {
	r := dErrors.ReasonOf(err)
	return Reason(r), r != ""
}
