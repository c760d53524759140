package portal

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetResponseField(path string) (any, error)
}

// RegisterSteps registers portal issue step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &portalSteps{tc: tc}

	ctx.Step(`^I complete portal issue "([^"]*)"$`, steps.complete)
	ctx.Step(`^portal issue "([^"]*)" should be listed as completed$`, steps.listedAsCompleted)
}

type portalSteps struct {
	tc TestContext
}

func (s *portalSteps) complete(ctx context.Context, id string) error {
	return s.tc.POST("/portal-issues/"+id+"/complete", nil)
}

func (s *portalSteps) listedAsCompleted(ctx context.Context, id string) error {
	if err := s.tc.GET("/portal-issues"); err != nil {
		return err
	}
	for i := 0; ; i++ {
		gotID, err := s.tc.GetResponseField(fmt.Sprintf("issues.%d.id", i))
		if err != nil {
			return fmt.Errorf("portal issue %s not listed", id)
		}
		if gotID != id {
			continue
		}
		completed, err := s.tc.GetResponseField(fmt.Sprintf("issues.%d.completed", i))
		if err != nil {
			return err
		}
		if completed != true {
			return fmt.Errorf("portal issue %s is not completed", id)
		}
		return nil
	}
}
