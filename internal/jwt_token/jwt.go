package jwttoken

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "mintgate/pkg/domain-errors"
)

// Claims represents the JWT claims for caller tokens. Wallet is the hex
// address the bearer acts as.
type Claims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 caller tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// GenerateCallerToken signs a token binding the bearer to wallet.
func (s *JWTService) GenerateCallerToken(wallet common.Address, expiresIn time.Duration) (string, error) {
	if wallet == (common.Address{}) {
		return "", dErrors.New(dErrors.CodeValidation, "wallet is required")
	}
	now := s.now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Wallet: wallet.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !common.IsHexAddress(claims.Wallet) || common.HexToAddress(claims.Wallet) == (common.Address{}) {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// CallerFromToken validates the token and returns its wallet.
func (s *JWTService) CallerFromToken(tokenString string) (common.Address, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(claims.Wallet), nil
}

var (
	ErrTokenExpired  = dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	ErrInvalidToken  = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	ErrInvalidClaims = dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
)
