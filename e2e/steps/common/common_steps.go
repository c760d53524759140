package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	GET(path string) error
	Status() int
	Header(name string) string
	GetResponseField(path string) (any, error)
}

// RegisterSteps registers background, request and assertion steps shared by all features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the quotedesk service is running$`, steps.serviceIsRunning)
	ctx.Step(`^I send a (GET|POST|OPTIONS) request to "([^"]*)"$`, steps.sendRequest)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response header "([^"]*)" should equal "([^"]*)"$`, steps.headerShouldEqual)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	if s.tc.Status() != 200 {
		return fmt.Errorf("health check returned %d", s.tc.Status())
	}
	return nil
}

func (s *commonSteps) sendRequest(ctx context.Context, method, path string) error {
	return s.tc.Do(method, path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.Status(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s to be %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%s is not a boolean: %v", field, v)
	}
	if fmt.Sprint(b) != want {
		return fmt.Errorf("expected %s to be %s, got %t", field, want, b)
	}
	return nil
}

func (s *commonSteps) headerShouldEqual(ctx context.Context, name, want string) error {
	if got := s.tc.Header(name); got != want {
		return fmt.Errorf("expected header %s to be %q, got %q", name, want, got)
	}
	return nil
}
