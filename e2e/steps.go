package e2e

import (
	"github.com/cucumber/godog"

	"warden/e2e/steps/access"
	"warden/e2e/steps/common"
	"warden/e2e/steps/source"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic assertions)
	common.RegisterSteps(ctx, tc)

	// Register credential exchange steps
	source.RegisterSteps(ctx, tc)

	// Register access evaluation steps
	access.RegisterSteps(ctx, tc)
}
