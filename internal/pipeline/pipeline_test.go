package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/stegoscan/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.ImageScanReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.ImageScanReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineExecute tests step execution and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		makeStep := func(name string) *mockStep {
			return &mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *model.ImageScanReport) error {
					order = append(order, name)
					return nil
				},
			}
		}

		p := New()
		p.AddSteps(makeStep("first"), makeStep("second"), makeStep("third"))

		report := model.NewImageScanReport("test.png")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(order) != len(want) {
			t.Fatalf("executed %d steps, want %d", len(order), len(want))
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("step %d = %s, want %s", i, order[i], want[i])
			}
		}
		if len(report.PerformedSteps) != 3 {
			t.Errorf("PerformedSteps = %v, want 3 entries", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.ImageScanReport) error {
				return errors.New("decode failed")
			},
		}
		next := &mockStep{name: "next"}

		p := New()
		p.AddSteps(failing, next)

		report := model.NewImageScanReport("broken.png")
		if err := p.Execute(context.Background(), report); err == nil {
			t.Fatal("expected error from failing step")
		}
		if next.callCount != 0 {
			t.Error("expected later step to be skipped after failure")
		}
		if !report.Failed() {
			t.Error("expected failure recorded on report")
		}
	})

	t.Run("continues after error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.ImageScanReport) error {
				return errors.New("metadata failed")
			},
		}
		next := &mockStep{name: "next"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, next)

		report := model.NewImageScanReport("partial.png")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute returned error despite continueOnError: %v", err)
		}
		if next.callCount != 1 {
			t.Error("expected later step to run with continueOnError")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		report := model.NewImageScanReport("cancelled.png")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected no step execution after cancellation")
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&mockStep{name: "load_image"}, &mockStep{name: "lsb_scan"})

	names := p.StepNames()
	if len(names) != 2 || names[0] != "load_image" || names[1] != "lsb_scan" {
		t.Errorf("StepNames = %v, want [load_image lsb_scan]", names)
	}
}
