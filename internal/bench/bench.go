// Package bench drives generators through the statistical battery and
// aggregates results per sample size.
// GLI-19 §3.2.2: Statistical Analysis — the evaluation protocol layer
//
// The package is a thin harness over internal/stats: it owns buffer
// allocation, trial repetition, aggregation, and timing, while every
// statistic remains a pure function of one captured buffer.
package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/alexbotov/rnglab/internal/config"
	"github.com/alexbotov/rnglab/internal/domain"
	"github.com/alexbotov/rnglab/internal/generator"
	"github.com/alexbotov/rnglab/internal/stats"
)

// domainBound is the exclusive upper bound of the 32-bit value domain used
// for the chi-squared uniformity check.
const domainBound uint64 = 1 << 32

var (
	ErrNoSampleSizes = errors.New("at least one sample size is required")
	ErrInvalidTrials = errors.New("trial count must be positive")
)

// Params describes one evaluation protocol: which buffer lengths to test,
// how many trials per length, and the battery parameters.
type Params struct {
	SampleSizes []int
	Trials      int
	Bins        int
	BlockSize   int
}

// FromConfig builds Params from the configured benchmark defaults.
func FromConfig(cfg config.BenchConfig) Params {
	return Params{
		SampleSizes: cfg.SampleSizes,
		Trials:      cfg.Trials,
		Bins:        cfg.Bins,
		BlockSize:   cfg.BlockSize,
	}
}

func (p Params) validate() error {
	if len(p.SampleSizes) == 0 {
		return ErrNoSampleSizes
	}
	for _, n := range p.SampleSizes {
		if n <= 0 {
			return fmt.Errorf("sample size must be positive, got %d", n)
		}
	}
	if p.Trials <= 0 {
		return ErrInvalidTrials
	}
	if p.Bins <= 0 {
		return stats.ErrInvalidBins
	}
	if p.BlockSize <= 0 {
		return stats.ErrInvalidBlockSize
	}
	return nil
}

// TrialMetrics holds the battery output for one captured buffer.
type TrialMetrics struct {
	Mean       float64
	Stdev      float64
	CoeffVar   float64
	ChiSquared float64
	Suite      stats.SuiteResult
}

// EvaluateBuffer applies the full battery to one buffer.
func EvaluateBuffer(buf []uint32, bins, blockSize int) (TrialMetrics, error) {
	var m TrialMetrics
	var err error

	if m.Mean, err = stats.Mean(buf); err != nil {
		return m, err
	}
	if m.Stdev, err = stats.Stdev(buf, m.Mean); err != nil {
		return m, err
	}
	m.CoeffVar = stats.CoeffVar(m.Mean, m.Stdev)
	if m.ChiSquared, err = stats.ChiSquared(buf, bins, domainBound); err != nil {
		return m, err
	}
	if m.Suite, err = stats.RunSuite(buf, stats.SuiteConfig{BlockSize: blockSize}); err != nil {
		return m, err
	}
	return m, nil
}

// accumulator aggregates trial metrics for one sample-size group. It is
// created per group and discarded with it, so no state leaks between sizes.
type accumulator struct {
	mean  []float64
	stdev []float64
	cv    []float64
	chi2  []float64

	monobit   int
	blockFreq int
	runs      int
	cusum     int
	serial2   int
}

func newAccumulator(trials int) *accumulator {
	return &accumulator{
		mean:  make([]float64, 0, trials),
		stdev: make([]float64, 0, trials),
		cv:    make([]float64, 0, trials),
		chi2:  make([]float64, 0, trials),
	}
}

func (a *accumulator) add(m TrialMetrics) {
	a.mean = append(a.mean, m.Mean)
	a.stdev = append(a.stdev, m.Stdev)
	a.cv = append(a.cv, m.CoeffVar)
	a.chi2 = append(a.chi2, m.ChiSquared)

	if m.Suite.Monobit {
		a.monobit++
	}
	if m.Suite.BlockFrequency {
		a.blockFreq++
	}
	if m.Suite.Runs {
		a.runs++
	}
	if m.Suite.CumulativeSums {
		a.cusum++
	}
	if m.Suite.Serial2 {
		a.serial2++
	}
}

func (a *accumulator) row(sampleSize int, genDur, anDur time.Duration) domain.Row {
	trials := float64(len(a.mean))
	return domain.Row{
		SampleSize:     sampleSize,
		Mean:           stat.Mean(a.mean, nil),
		Stdev:          stat.Mean(a.stdev, nil),
		CoeffVar:       stat.Mean(a.cv, nil),
		ChiSquared:     stat.Mean(a.chi2, nil),
		Monobit:        float64(a.monobit) / trials,
		BlockFrequency: float64(a.blockFreq) / trials,
		Runs:           float64(a.runs) / trials,
		CumulativeSums: float64(a.cusum) / trials,
		Serial2:        float64(a.serial2) / trials,
		GenerateMS:     genDur.Seconds() * 1000,
		AnalyzeMS:      anDur.Seconds() * 1000,
	}
}

// Run evaluates one source over the whole size ladder. The source state is
// continuous across trials and sizes: every trial consumes the next stretch
// of the sequence rather than reseeding.
//
// progress, if non-nil, receives each aggregated row as soon as its
// sample-size group completes. Cancellation is honored between trials.
func Run(ctx context.Context, src generator.Source, seed uint64, p Params, progress func(domain.Row)) (*domain.Report, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:        uuid.New().String(),
		Generator: src.Name(),
		Seed:      seed,
		Trials:    p.Trials,
		Bins:      p.Bins,
		BlockSize: p.BlockSize,
		StartedAt: time.Now().UTC(),
	}

	start := time.Now()
	for _, size := range p.SampleSizes {
		acc := newAccumulator(p.Trials)
		var genDur, anDur time.Duration

		for trial := 0; trial < p.Trials; trial++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			// One buffer per trial; captured once, immutable afterwards.
			buf := make([]uint32, size)

			t0 := time.Now()
			generator.Fill(src, buf)
			genDur += time.Since(t0)

			t1 := time.Now()
			m, err := EvaluateBuffer(buf, p.Bins, p.BlockSize)
			if err != nil {
				return nil, fmt.Errorf("sample size %d: %w", size, err)
			}
			anDur += time.Since(t1)

			acc.add(m)
		}

		row := acc.row(size, genDur, anDur)
		report.Rows = append(report.Rows, row)
		if progress != nil {
			progress(row)
		}
	}
	report.Elapsed = time.Since(start).Seconds() * 1000

	return report, nil
}

// Seeded pairs a source with the seed it was constructed from, for
// reporting.
type Seeded struct {
	Source generator.Source
	Seed   uint64
}

// RunAll evaluates several sources concurrently, one goroutine per source.
// Sources are independent and the battery is pure, so no synchronization
// beyond the join is needed. Reports are returned in input order.
func RunAll(ctx context.Context, sources []Seeded, p Params) ([]*domain.Report, error) {
	reports := make([]*domain.Report, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, s := range sources {
		wg.Add(1)
		go func(i int, s Seeded) {
			defer wg.Done()
			reports[i], errs[i] = Run(ctx, s.Source, s.Seed, p, nil)
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return reports, nil
}
