package authtoken

import (
	id "warden/pkg/domain"
	authmw "warden/pkg/platform/middleware/auth"
)

// MiddlewareAdapter bridges the token service to the auth middleware's
// validator contract.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	sourceID, err := claims.SourceID()
	if err != nil {
		return nil, err
	}
	environmentID, err := id.ParseEnvironmentID(claims.EnvironmentID)
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{
		SourceID:      sourceID,
		EnvironmentID: environmentID,
	}, nil
}
