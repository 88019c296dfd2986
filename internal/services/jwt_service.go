package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/config"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
)

const accessTokenTTL = 24 * time.Hour

// TokenIssuer identifies this service in the `iss` claim.
const TokenIssuer = "estate-agency"

type JWTService struct {
	cfg *config.Config
}

func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{cfg: cfg}
}

// IssueAccessToken signs a token carrying the user id (`sub`) and role.
func (s *JWTService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iss":  TokenIssuer,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
