package source

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	SourceID() string
	SourceSecret() string
	SetAccessToken(token string)
}

// RegisterSteps registers credential exchange step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sourceSteps{tc: tc}

	ctx.Step(`^the camera exchanges its credentials for a token$`, steps.exchangeCredentials)
	ctx.Step(`^the camera requests a token with secret "([^"]*)"$`, steps.requestTokenWithSecret)
	ctx.Step(`^a token is requested for unknown source "([^"]*)"$`, steps.requestTokenForSource)
	ctx.Step(`^I save the access token$`, steps.saveAccessToken)
}

type sourceSteps struct {
	tc TestContext
}

func (s *sourceSteps) exchangeCredentials(ctx context.Context) error {
	return s.tc.POST("/v1/sources/token", map[string]interface{}{
		"source_id": s.tc.SourceID(),
		"secret":    s.tc.SourceSecret(),
	})
}

func (s *sourceSteps) requestTokenWithSecret(ctx context.Context, secret string) error {
	return s.tc.POST("/v1/sources/token", map[string]interface{}{
		"source_id": s.tc.SourceID(),
		"secret":    secret,
	})
}

func (s *sourceSteps) requestTokenForSource(ctx context.Context, sourceID string) error {
	return s.tc.POST("/v1/sources/token", map[string]interface{}{
		"source_id": sourceID,
		"secret":    s.tc.SourceSecret(),
	})
}

func (s *sourceSteps) saveAccessToken(ctx context.Context) error {
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	tokenString, ok := token.(string)
	if !ok || tokenString == "" {
		return fmt.Errorf("access_token is missing or empty")
	}
	s.tc.SetAccessToken(tokenString)
	return nil
}
