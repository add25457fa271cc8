package usecase

import (
	"booking-lifecycle/internal/pkg/jwt"
	"booking-lifecycle/internal/usecase/queries"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (queries.Caller, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (queries.Caller, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return queries.Caller{}, err
	}
	return queries.Caller{UserID: claims.UserID, Role: claims.Role}, nil
}
