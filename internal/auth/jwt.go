package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/dilutionwise/internal/calculator"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWeakSecret   = errors.New("token secret must be at least 32 bytes")
)

const (
	minSecretLength = 32
	issuer          = "dilutionwise"
)

// ReportTokens signs calculation inputs into short-lived download links,
// so a PDF can be fetched later without the server keeping any state.
type ReportTokens struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// ReportClaims carries the four calculator inputs.
type ReportClaims struct {
	InitialShares    float64 `json:"ish"`
	YourShares       float64 `json:"ysh"`
	CompanyValuation float64 `json:"val"`
	InvestmentAmount float64 `json:"inv"`
	jwt.RegisteredClaims
}

// NewReportTokens creates a token signer. secretKey must be at least 32 bytes.
func NewReportTokens(secretKey string, ttl time.Duration) (*ReportTokens, error) {
	if len(secretKey) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &ReportTokens{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Issue signs in and returns the token with its expiry time.
// Inputs are validated first so a token never encodes an impossible round.
func (m *ReportTokens) Issue(in calculator.Input) (string, time.Time, error) {
	if err := calculator.Validate(in); err != nil {
		return "", time.Time{}, err
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &ReportClaims{
		InitialShares:    in.InitialShares,
		YourShares:       in.YourShares,
		CompanyValuation: in.CompanyValuation,
		InvestmentAmount: in.InvestmentAmount,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Parse validates a token and returns the inputs it carries.
func (m *ReportTokens) Parse(tokenString string) (calculator.Input, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&ReportClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return calculator.Input{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*ReportClaims)
	if !ok || !token.Valid {
		return calculator.Input{}, ErrInvalidToken
	}

	return calculator.Input{
		InitialShares:    claims.InitialShares,
		YourShares:       claims.YourShares,
		CompanyValuation: claims.CompanyValuation,
		InvestmentAmount: claims.InvestmentAmount,
	}, nil
}
