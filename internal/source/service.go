package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	authtoken "warden/internal/auth_token"
	"warden/internal/source/secrets"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// Registration is the input for registering one capture source. An empty
// Secret asks the service to generate one.
type Registration struct {
	EnvironmentID id.EnvironmentID
	Name          string
	Secret        string
}

// Seed declares a source with fixed credentials, used to provision
// configured devices at boot.
type Seed struct {
	ID            string
	EnvironmentID string
	Name          string
	Secret        string
}

// TokenGrant is a successful credential exchange.
type TokenGrant struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Service manages source registration and the credential exchange.
type Service struct {
	store  Store
	tokens *authtoken.Service
	logger *slog.Logger
}

func NewService(store Store, tokens *authtoken.Service, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Register persists a new active source and returns it together with
// the plaintext secret. The secret is shown exactly once; only its hash
// is stored.
// Errors: CodeInvalidInput on a malformed registration.
func (s *Service) Register(ctx context.Context, registration Registration) (*Source, string, error) {
	secret := registration.Secret
	if secret == "" {
		generated, err := secrets.Generate()
		if err != nil {
			return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "generate source secret")
		}
		secret = generated
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return nil, "", err
	}

	now := requestcontext.Now(ctx).UTC()
	src := Source{
		ID:            id.NewSourceID(),
		EnvironmentID: registration.EnvironmentID,
		Name:          registration.Name,
		SecretHash:    hash,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := src.Validate(); err != nil {
		return nil, "", err
	}
	if err := s.store.Create(ctx, &src); err != nil {
		return nil, "", storeError(err, "register source")
	}

	s.logger.InfoContext(ctx, "source registered",
		"source_id", src.ID,
		"environment_id", src.EnvironmentID,
	)
	return &src, secret, nil
}

// SeedSources provisions configured sources with fixed ids. Sources that
// already exist are left untouched so restarts are idempotent.
func (s *Service) SeedSources(ctx context.Context, seeds []Seed) error {
	for _, seed := range seeds {
		sourceID, err := id.ParseSourceID(seed.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "seed source id")
		}
		environmentID, err := id.ParseEnvironmentID(seed.EnvironmentID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "seed source environment")
		}
		hash, err := secrets.Hash(seed.Secret)
		if err != nil {
			return err
		}

		now := requestcontext.Now(ctx).UTC()
		src := Source{
			ID:            sourceID,
			EnvironmentID: environmentID,
			Name:          seed.Name,
			SecretHash:    hash,
			Active:        true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := src.Validate(); err != nil {
			return err
		}
		err = s.store.Create(ctx, &src)
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		if err != nil {
			return storeError(err, "seed source")
		}
		s.logger.InfoContext(ctx, "source seeded",
			"source_id", src.ID,
			"environment_id", src.EnvironmentID,
		)
	}
	return nil
}

// Authenticate exchanges source credentials for a bearer token. Unknown
// sources, inactive sources, and bad secrets all fail identically so the
// endpoint leaks nothing about which part was wrong.
// Errors: CodeUnauthorized on any credential failure.
func (s *Service) Authenticate(ctx context.Context, sourceID, secret string) (TokenGrant, error) {
	parsed, err := id.ParseSourceID(sourceID)
	if err != nil {
		return TokenGrant{}, errInvalidCredentials()
	}

	src, err := s.store.FindByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return TokenGrant{}, errInvalidCredentials()
		}
		return TokenGrant{}, storeError(err, "authenticate source")
	}
	if !src.Active {
		return TokenGrant{}, errInvalidCredentials()
	}
	if err := secrets.Verify(secret, src.SecretHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return TokenGrant{}, errInvalidCredentials()
		}
		return TokenGrant{}, dErrors.Wrap(err, dErrors.CodeInternal, "authenticate source")
	}

	token, expiresAt, err := s.tokens.Issue(src.ID, src.EnvironmentID)
	if err != nil {
		return TokenGrant{}, dErrors.Wrap(err, dErrors.CodeInternal, "issue source token")
	}

	s.logger.InfoContext(ctx, "source authenticated",
		"source_id", src.ID,
		"environment_id", src.EnvironmentID,
	)
	return TokenGrant{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// storeError maps store sentinels onto typed domain errors.
func storeError(err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, message)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
