// Package inspect wires the diagnostic procedures together: the
// sample-path comparison and the strong-order estimation. Both build
// one model pair (Ito for the explicit scheme, Stratonovich for the
// corrected schemes, sharing one parameter), one Brownian interval,
// and compare every solver on that single noise realization.
package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/analysis"
	"github.com/pkoval/sdelab/internal/brownian"
	"github.com/pkoval/sdelab/internal/compute"
	"github.com/pkoval/sdelab/internal/config"
	"github.com/pkoval/sdelab/internal/plotting"
	"github.com/pkoval/sdelab/internal/problems"
	"github.com/pkoval/sdelab/internal/sde"
	"github.com/pkoval/sdelab/internal/solvers"
)

// Methods are the schemes under comparison, in plot order.
var Methods = []string{"euler", "heun", "midpoint"}

// Runner executes the diagnostics with an explicit backend and logger;
// nothing is read from package globals.
type Runner struct {
	cfg     *config.Config
	backend compute.Backend
	log     *slog.Logger
}

func New(cfg *config.Config, backend compute.Backend, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, backend: backend, log: log}
}

// modelPair builds the two parameterizations of the benchmark SDE,
// sharing the parameter drawn by the Ito instance.
func (r *Runner) modelPair(dim int) (ito, strat *problems.SineCosine) {
	src := rand.NewSource(r.cfg.Seed)
	ito = problems.NewSineCosine(dim, sde.Ito, r.backend, src)
	strat = problems.NewSineCosine(dim, sde.Stratonovich, r.backend, src)
	// Shared parameter keeps the two instances describing the same
	// process.
	_ = strat.SetParam("p", ito.GetParams()["p"])
	return ito, strat
}

func (r *Runner) systemFor(method string, ito, strat *problems.SineCosine) (sde.System, error) {
	st, err := solvers.Get(method)
	if err != nil {
		return nil, err
	}
	if st.Calculus() == sde.Ito {
		return ito, nil
	}
	return strat, nil
}

// Sample integrates the three schemes and the analytical solution over
// a dense grid and writes one PNG per batch element overlaying the
// four trajectories. The output directory is created if absent.
func (r *Runner) Sample(ctx context.Context) error {
	cfg := r.cfg.Sample
	ts := solvers.Grid(cfg.T0, cfg.T1, cfg.Steps)
	y0 := sde.Ones(cfg.Batch, cfg.Dim)

	itoSys, stratSys := r.modelPair(cfg.Dim)
	bm, err := brownian.NewInterval(cfg.T0, cfg.T1, cfg.Batch, cfg.Dim, r.cfg.Seed)
	if err != nil {
		return err
	}

	r.log.Info("sample-path comparison",
		"batch", cfg.Batch, "dim", cfg.Dim, "dt", cfg.Dt,
		"p", itoSys.GetParams()["p"], "backend", r.backend.Name())

	trajectories := make(map[string][]*mat.Dense, len(Methods)+1)
	for _, method := range Methods {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := solvers.Get(method)
		if err != nil {
			return err
		}
		sys, err := r.systemFor(method, itoSys, stratSys)
		if err != nil {
			return err
		}
		ys, err := solvers.Integrate(sys, st, y0, ts, cfg.Dt, bm)
		if err != nil {
			return fmt.Errorf("inspect: %s integration: %w", method, err)
		}
		trajectories[method] = ys
	}
	ana, err := itoSys.AnalyticalSample(y0, ts, bm)
	if err != nil {
		return err
	}
	trajectories["analytical"] = ana

	dir := r.cfg.OutDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	names := append(append([]string{}, Methods...), "analytical")
	for i := 0; i < cfg.Batch; i++ {
		series := make([]plotting.Series, 0, len(names))
		for _, name := range names {
			series = append(series, plotting.Series{
				Name: name,
				Ys:   elementSeries(trajectories[name], i),
			})
		}
		file := filepath.Join(dir, fmt.Sprintf("%d.png", i))
		if err := plotting.SavePaths(file, ts, series); err != nil {
			return err
		}
	}
	r.log.Info("sample paths written", "dir", dir, "files", cfg.Batch)
	return nil
}

// StrongOrder integrates the three schemes over the two-point span at
// every step size of the ladder against one fixed Brownian
// realization, measures endpoint MSE against the analytical solution,
// fits the empirical strong order per method, and writes the rate
// plot. It returns the fits keyed by method name.
func (r *Runner) StrongOrder(ctx context.Context) (map[string]analysis.OrderFit, error) {
	cfg := r.cfg.Order
	ts := []float64{cfg.T0, cfg.T1}
	dts := solvers.StepSizes(cfg.MinExp, cfg.MaxExp)
	y0 := sde.Ones(cfg.Batch, cfg.Dim)

	itoSys, stratSys := r.modelPair(cfg.Dim)
	bm, err := brownian.NewInterval(cfg.T0, cfg.T1, cfg.Batch, cfg.Dim, r.cfg.Seed)
	if err != nil {
		return nil, err
	}

	r.log.Info("strong-order estimation",
		"batch", cfg.Batch, "dim", cfg.Dim, "steps", len(dts),
		"p", itoSys.GetParams()["p"], "backend", r.backend.Name())

	mses := make(map[string][]float64, len(Methods))
	bar := progressbar.NewOptions(len(dts),
		progressbar.OptionSetDescription("step sizes"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	for _, dt := range dts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ana, err := itoSys.AnalyticalSample(y0, ts, bm)
		if err != nil {
			return nil, err
		}
		exact := ana[len(ana)-1]
		for _, method := range Methods {
			st, err := solvers.Get(method)
			if err != nil {
				return nil, err
			}
			sys, err := r.systemFor(method, itoSys, stratSys)
			if err != nil {
				return nil, err
			}
			ys, err := solvers.Integrate(sys, st, y0, ts, dt, bm)
			if err != nil {
				return nil, fmt.Errorf("inspect: %s at dt=%g: %w", method, dt, err)
			}
			// End value only; the scalar leaves the matrix container
			// here, before any regression.
			mse, err := analysis.MSE(ys[len(ys)-1], exact)
			if err != nil {
				return nil, err
			}
			mses[method] = append(mses[method], mse)
		}
		_ = bar.Add(1)
	}

	fits := make(map[string]analysis.OrderFit, len(Methods))
	curves := make([]plotting.RateCurve, 0, len(Methods))
	for _, method := range Methods {
		fit, err := analysis.StrongOrder(dts, mses[method])
		if err != nil {
			return nil, fmt.Errorf("inspect: %s rate fit: %w", method, err)
		}
		fits[method] = fit
		curves = append(curves, plotting.RateCurve{Name: method, MSEs: mses[method], Order: fit.Order})
		r.log.Info("empirical strong order", "method", method,
			"order", fmt.Sprintf("%.4f", fit.Order), "r2", fmt.Sprintf("%.4f", fit.R2))
	}

	fmt.Println(plotting.RatePreview(curves))

	dir := r.cfg.OutDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	file := filepath.Join(dir, "rate.png")
	if err := plotting.SaveRates(file, dts, curves); err != nil {
		return nil, err
	}
	r.log.Info("rate plot written", "file", file)
	return fits, nil
}

// elementSeries extracts the (i, 0) component of every grid matrix:
// one batch element's first-coordinate trajectory.
func elementSeries(ys []*mat.Dense, i int) []float64 {
	out := make([]float64, len(ys))
	for k, y := range ys {
		out[k] = y.At(i, 0)
	}
	return out
}
