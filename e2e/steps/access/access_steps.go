package access

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	SourceID() string
	ClearAccessToken()
	Embedding(fill float64) []float64
}

// RegisterSteps registers access evaluation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &accessSteps{tc: tc}

	ctx.Step(`^the camera submits a detection with an unknown face$`, steps.submitUnknownFace)
	ctx.Step(`^the camera submits a detection for environment "([^"]*)"$`, steps.submitForEnvironment)
	ctx.Step(`^the camera submits a detection claiming source "([^"]*)"$`, steps.submitClaimingSource)
	ctx.Step(`^a detection is submitted without a token$`, steps.submitWithoutToken)
	ctx.Step(`^the camera submits a detection with a (\d+)-dimension embedding$`, steps.submitWithEmbeddingDim)
}

type accessSteps struct {
	tc TestContext
}

func (s *accessSteps) evaluate(body map[string]interface{}) error {
	return s.tc.POST("/v1/access/evaluate", body)
}

func (s *accessSteps) detection() map[string]interface{} {
	return map[string]interface{}{
		"source_id": s.tc.SourceID(),
		// Fixed in-window timestamp so schedule-gated policies behave the
		// same no matter when the suite runs.
		"timestamp": "2025-11-04T08:30:00Z",
		"embedding": s.tc.Embedding(0.5),
		"detected_items": map[string]float64{
			"safety_helmet": 0.9,
			"safety_vest":   0.8,
		},
	}
}

func (s *accessSteps) submitUnknownFace(ctx context.Context) error {
	return s.evaluate(s.detection())
}

func (s *accessSteps) submitForEnvironment(ctx context.Context, environmentID string) error {
	body := s.detection()
	body["environment_id"] = environmentID
	return s.evaluate(body)
}

func (s *accessSteps) submitClaimingSource(ctx context.Context, sourceID string) error {
	body := s.detection()
	body["source_id"] = sourceID
	return s.evaluate(body)
}

func (s *accessSteps) submitWithoutToken(ctx context.Context) error {
	s.tc.ClearAccessToken()
	return s.evaluate(s.detection())
}

func (s *accessSteps) submitWithEmbeddingDim(ctx context.Context, dim int) error {
	body := s.detection()
	body["embedding"] = s.tc.Embedding(0.5)[:dim]
	return s.evaluate(body)
}
