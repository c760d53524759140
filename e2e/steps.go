package e2e

import (
	"github.com/cucumber/godog"

	"quotedesk/e2e/steps/common"
	"quotedesk/e2e/steps/comparison"
	"quotedesk/e2e/steps/portal"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	comparison.RegisterSteps(ctx, tc)
	portal.RegisterSteps(ctx, tc)
}
