package comparison

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
}

// RegisterSteps registers comparison step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &comparisonSteps{tc: tc, body: map[string]any{}}

	ctx.Step(`^a comparison for recipient "([^"]*)"$`, steps.comparisonFor)
	ctx.Step(`^the comparison has cc emails "([^"]*)"$`, steps.withCC)
	ctx.Step(`^the comparison has an uploaded quotation from "([^"]*)"$`, steps.withUpload)
	ctx.Step(`^the comparison has a quotation from "([^"]*)" at "([^"]*)"$`, steps.withRemote)
	ctx.Step(`^the comparison has no quotations$`, steps.withoutQuotations)
	ctx.Step(`^I submit the comparison$`, steps.submit)
}

type comparisonSteps struct {
	tc        TestContext
	body      map[string]any
	successes []map[string]string
	failures  []map[string]string
}

func (s *comparisonSteps) comparisonFor(ctx context.Context, recipient string) error {
	s.body = map[string]any{"recipientEmail": recipient, "message": "Automated end-to-end comparison"}
	s.successes = nil
	s.failures = nil
	return nil
}

func (s *comparisonSteps) withCC(ctx context.Context, cc string) error {
	s.body["ccEmails"] = []string{cc}
	return nil
}

func (s *comparisonSteps) withUpload(ctx context.Context, portal string) error {
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 " + portal))
	s.failures = append(s.failures, map[string]string{"portalName": portal, "fileData": pdf})
	return nil
}

func (s *comparisonSteps) withRemote(ctx context.Context, portal, url string) error {
	name := strings.ReplaceAll(portal, " ", "_") + "_Quotation.pdf"
	s.successes = append(s.successes, map[string]string{"portalName": portal, "fileName": name, "fileUrl": url})
	return nil
}

func (s *comparisonSteps) withoutQuotations(ctx context.Context) error {
	s.successes = nil
	s.failures = nil
	return nil
}

func (s *comparisonSteps) submit(ctx context.Context) error {
	if s.body["recipientEmail"] == nil {
		return fmt.Errorf("no comparison prepared")
	}
	s.body["successQuotations"] = s.successes
	s.body["failureQuotations"] = s.failures
	return s.tc.POST("/functions/v1/generate-comparison", s.body)
}
