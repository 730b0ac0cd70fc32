package jwttoken

import (
	"github.com/ethereum/go-ethereum/common"
)

// CallerValidator adapts JWTService to the middleware's validator port.
type CallerValidator struct {
	service *JWTService
}

func NewCallerValidator(service *JWTService) *CallerValidator {
	return &CallerValidator{service: service}
}

func (a *CallerValidator) ValidateCaller(tokenString string) (common.Address, error) {
	return a.service.CallerFromToken(tokenString)
}
