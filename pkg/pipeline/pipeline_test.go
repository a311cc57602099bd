package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/config"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

func recorder(calls *[]string, name string, err error) Stage {
	return Stage{Name: name, Run: func(context.Context, *State) error {
		*calls = append(*calls, name)
		return err
	}}
}

// -----------------------------------------------------------------------------
// Ordering and Failure Tests
// -----------------------------------------------------------------------------

func TestRun_StagesInOrder(t *testing.T) {
	var calls []string
	p := NewWithStages(nil, Options{Stdout: &bytes.Buffer{}}, []Stage{
		recorder(&calls, "a", nil),
		recorder(&calls, "b", nil),
		recorder(&calls, "c", nil),
	})

	state, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Join(calls, ",") != "a,b,c" {
		t.Errorf("unexpected call order %v", calls)
	}
	if state.RunID == "" {
		t.Error("expected a run id")
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	var calls []string
	failure := serrors.IO(serrors.ErrIOWriteFailed, "disk full")
	p := NewWithStages(nil, Options{Stdout: &bytes.Buffer{}}, []Stage{
		recorder(&calls, "a", nil),
		recorder(&calls, "b", failure),
		recorder(&calls, "c", nil),
	})

	_, err := p.Run(context.Background())
	if !serrors.IsCode(err, serrors.ErrIOWriteFailed) {
		t.Fatalf("expected %s, got %v", serrors.ErrIOWriteFailed, err)
	}
	if strings.Join(calls, ",") != "a,b" {
		t.Errorf("expected run to stop after b, got %v", calls)
	}
	se, _ := serrors.AsSkylineError(err)
	if se.Context["stage"] != "b" {
		t.Errorf("expected stage context, got %v", se.Context)
	}
}

func TestRun_WrapsPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	p := NewWithStages(nil, Options{Stdout: &bytes.Buffer{}}, []Stage{
		{Name: "x", Run: func(context.Context, *State) error { return plain }},
	})

	_, err := p.Run(context.Background())
	if !serrors.IsCode(err, serrors.ErrInternalStage) {
		t.Fatalf("expected %s, got %v", serrors.ErrInternalStage, err)
	}
	if !errors.Is(err, plain) {
		t.Error("expected original error in the chain")
	}
}

func TestRun_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string
	p := NewWithStages(nil, Options{Stdout: &bytes.Buffer{}}, []Stage{
		{Name: "a", Run: func(context.Context, *State) error {
			calls = append(calls, "a")
			cancel()
			return nil
		}},
		recorder(&calls, "b", nil),
	})

	_, err := p.Run(ctx)
	if !serrors.IsCode(err, serrors.ErrInternalCancelled) {
		t.Fatalf("expected %s, got %v", serrors.ErrInternalCancelled, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected context.Canceled in the chain")
	}
	if strings.Join(calls, ",") != "a" {
		t.Errorf("expected b to be skipped, got %v", calls)
	}
}

func TestRun_Progress(t *testing.T) {
	var calls []string
	var progress bytes.Buffer
	p := NewWithStages(nil, Options{Stdout: &bytes.Buffer{}, Progress: &progress}, []Stage{
		recorder(&calls, "first", nil),
		recorder(&calls, "second", nil),
	})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := progress.String()
	for _, want := range []string{"(2/2)", "second", "✓ Reports written"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected progress output to contain %q:\n%s", want, out)
		}
	}
}

func TestDefaultStages_Order(t *testing.T) {
	got := strings.Join(New(config.Default(), Options{}).Stages(), ",")
	want := "load,sort,workbook,bar_chart,map_image,web_map,pdf,proximity,manifest"
	if got != want {
		t.Errorf("Stages() = %s, want %s", got, want)
	}
}
