package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token has expired")
)

const issuer = "library-management"

type Config struct {
	AccessSecret  string        `envconfig:"ACCESS_TOKEN_SECRET" required:"true"`
	RefreshSecret string        `envconfig:"REFRESH_TOKEN_SECRET" required:"true"`
	AccessTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTTL    time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"120h"`
	HashCost      int           `envconfig:"PASSWORD_HASH_COST" default:"10"`
}

type Claims struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access and refresh tokens. Both kinds carry the
// same claims; they differ by secret and lifetime.
type TokenManager struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(cfg Config) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token secrets must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid token TTL configuration")
	}
	return &TokenManager{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *TokenManager) GenerateAccessToken(userID int64, role Role) (string, error) {
	return m.sign(userID, role, m.accessSecret, m.accessTTL)
}

func (m *TokenManager) GenerateRefreshToken(userID int64, role Role) (string, error) {
	return m.sign(userID, role, m.refreshSecret, m.refreshTTL)
}

func (m *TokenManager) VerifyAccessToken(token string) (*Claims, error) {
	return VerifyToken(token, m.accessSecret)
}

func (m *TokenManager) VerifyRefreshToken(token string) (*Claims, error) {
	return VerifyToken(token, m.refreshSecret)
}

// IdentifyAccessToken checks the signature of an access token but accepts an
// elapsed validity window. The claims only name the caller; they grant nothing.
func (m *TokenManager) IdentifyAccessToken(token string) (*Claims, error) {
	return verifyToken(token, []byte(m.accessSecret), false)
}

func (m *TokenManager) sign(userID int64, role Role, secret string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// VerifyToken checks signature and validity window of token against secret.
// Both TokenManager verifiers go through it.
func VerifyToken(token, secret string) (*Claims, error) {
	return verifyToken(token, []byte(secret), true)
}

func verifyToken(token string, secret []byte, checkExpiry bool) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parser := jwt.NewParser(opts...)
	claims := new(Claims)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}
	if !parsed.Valid || claims.Issuer != issuer || !claims.Role.Valid() || claims.UserID <= 0 {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}
