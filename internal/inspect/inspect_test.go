package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkoval/sdelab/internal/compute"
	"github.com/pkoval/sdelab/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutDir = t.TempDir()
	cfg.Sample.Batch = 3
	cfg.Sample.Dim = 1
	cfg.Sample.Steps = 11
	cfg.Sample.T1 = 1
	cfg.Sample.Dt = 0.25
	cfg.Order.Batch = 128
	cfg.Order.Dim = 2
	cfg.Order.T1 = 1
	cfg.Order.MinExp = 2
	cfg.Order.MaxExp = 5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return cfg
}

func testRunner(t *testing.T, cfg *config.Config) *Runner {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, compute.NewCPUBackend(), log)
}

func TestSampleWritesOnePNGPerBatchElement(t *testing.T) {
	cfg := testConfig(t)
	r := testRunner(t, cfg)
	if err := r.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i := 0; i < cfg.Sample.Batch; i++ {
		path := filepath.Join(cfg.OutDir, fmt.Sprintf("%d.png", i))
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing plot %d: %v", i, err)
		}
		if info.Size() == 0 {
			t.Errorf("plot %d is empty", i)
		}
	}
}

func TestSampleCreatesOutputDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutDir = filepath.Join(cfg.OutDir, "nested", "plots")
	r := testRunner(t, cfg)
	if err := r.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if _, err := os.Stat(cfg.OutDir); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestSampleIsRerunnable(t *testing.T) {
	cfg := testConfig(t)
	r := testRunner(t, cfg)
	for run := 0; run < 2; run++ {
		if err := r.Sample(context.Background()); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
}

func TestSampleHonorsContext(t *testing.T) {
	cfg := testConfig(t)
	r := testRunner(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Sample(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestStrongOrderFitsAndPlot(t *testing.T) {
	cfg := testConfig(t)
	r := testRunner(t, cfg)
	fits, err := r.StrongOrder(context.Background())
	if err != nil {
		t.Fatalf("StrongOrder: %v", err)
	}
	for _, method := range Methods {
		fit, ok := fits[method]
		if !ok {
			t.Fatalf("no fit for %s", method)
		}
		if fit.R2 < 0.8 {
			t.Errorf("%s: R2 = %.3f, fit should be close to linear", method, fit.R2)
		}
	}

	// The corrected schemes must converge visibly faster than the
	// uncorrected one; the exact decimals are left to larger batches.
	euler := fits["euler"].Order
	if euler < 0.15 || euler > 1.0 {
		t.Errorf("euler order = %.3f, want near 0.5", euler)
	}
	for _, method := range []string{"heun", "midpoint"} {
		k := fits[method].Order
		if k < 0.5 || k > 1.7 {
			t.Errorf("%s order = %.3f, want near 1.0", method, k)
		}
		if k <= euler {
			t.Errorf("%s order %.3f not above euler %.3f", method, k, euler)
		}
	}

	info, err := os.Stat(filepath.Join(cfg.OutDir, "rate.png"))
	if err != nil {
		t.Fatalf("rate plot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("rate plot is empty")
	}
}

func TestStrongOrderIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	a, err := testRunner(t, cfg).StrongOrder(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := testRunner(t, cfg).StrongOrder(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, method := range Methods {
		if a[method] != b[method] {
			t.Errorf("%s: fits differ across runs: %+v vs %+v", method, a[method], b[method])
		}
	}
}

func TestStrongOrderHonorsContext(t *testing.T) {
	cfg := testConfig(t)
	r := testRunner(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.StrongOrder(ctx); err == nil {
		t.Error("expected context error")
	}
}
