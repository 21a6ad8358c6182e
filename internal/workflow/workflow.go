// Package workflow drives a smoke run: probe the service, bulk load it, then
// query it once.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rupamthxt/vectrasmoke/internal/client"
	"github.com/rupamthxt/vectrasmoke/internal/config"
	"github.com/rupamthxt/vectrasmoke/internal/embedding"
	"github.com/rupamthxt/vectrasmoke/internal/metrics"
	"github.com/rupamthxt/vectrasmoke/internal/report"
)

// Service is the remote vector store as the run sees it.
type Service interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, id string, vector []float32) error
	Search(ctx context.Context, vector []float32, k int) (*client.SearchResult, error)
}

type byteCounter interface {
	BytesSent() int64
}

type State int

const (
	Idle State = iota
	Probing
	Loading
	Querying
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case Loading:
		return "loading"
	case Querying:
		return "querying"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

const (
	PhaseProbe = "probe"
	PhaseLoad  = "load"
	PhaseQuery = "query"
)

// StageResult is what every phase hands back to the driver.
type StageResult struct {
	Phase    string
	Requests int
	Duration time.Duration
	Err      error
}

func (s StageResult) row() report.PhaseRow {
	status := "ok"
	if s.Err != nil {
		status = "failed"
	}
	return report.PhaseRow{Phase: s.Phase, Status: status, Requests: s.Requests, Duration: s.Duration}
}

// Outcome is the terminal state of a run.
type Outcome struct {
	State  State
	Phase  string // phase that aborted the run, empty when Done
	Err    error
	Stages []StageResult
}

// ExitCode maps the outcome to the process exit status. Every fatal phase exits 1.
func (o Outcome) ExitCode() int {
	if o.State == Done {
		return 0
	}
	return 1
}

type Runner struct {
	cfg     config.Config
	svc     Service
	rep     *report.Reporter
	gen     *embedding.Generator
	log     *zap.Logger
	metrics *metrics.Client
	limiter *rate.Limiter
	runID   string
	state   State
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func WithMetrics(m *metrics.Client) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithGenerator(g *embedding.Generator) Option {
	return func(r *Runner) { r.gen = g }
}

// New builds a runner. cfg is expected to have passed Validate.
func New(cfg config.Config, svc Service, rep *report.Reporter, opts ...Option) *Runner {
	r := &Runner{
		cfg:   cfg,
		svc:   svc,
		rep:   rep,
		gen:   embedding.New(),
		log:   zap.NewNop(),
		runID: uuid.NewString(),
		state: Idle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewClient(nil)
	}
	if cfg.InsertRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.InsertRate), 1)
	}
	r.log = r.log.With(zap.String("run_id", r.runID))
	return r
}

// State reports where the run currently is.
func (r *Runner) State() State { return r.state }

func (r *Runner) transition(to State) {
	r.log.Debug("state change", zap.Stringer("from", r.state), zap.Stringer("to", to))
	r.state = to
}

// Run executes probe, load and query in order, stopping at the first failure.
func (r *Runner) Run(ctx context.Context) Outcome {
	r.transition(Probing)
	probe := r.Probe(ctx)
	if probe.Err != nil {
		return r.abort(probe, []StageResult{probe}, false)
	}
	stages := []StageResult{probe}

	r.transition(Loading)
	load := r.Load(ctx)
	stages = append(stages, load)
	if load.Err != nil {
		return r.abort(load, stages, true)
	}

	r.transition(Querying)
	query := r.Query(ctx)
	stages = append(stages, query)
	if query.Err != nil {
		return r.abort(query, stages, true)
	}

	r.transition(Done)
	r.summary(stages)
	r.log.Debug("run complete", zap.Int("inserted", load.Requests))
	return Outcome{State: Done, Stages: stages}
}

func (r *Runner) abort(failed StageResult, stages []StageResult, summarize bool) Outcome {
	r.transition(Aborted)
	if summarize {
		r.summary(stages)
	}
	r.log.Debug("run aborted", zap.String("phase", failed.Phase), zap.Error(failed.Err))
	return Outcome{State: Aborted, Phase: failed.Phase, Err: failed.Err, Stages: stages}
}

func (r *Runner) summary(stages []StageResult) {
	rows := make([]report.PhaseRow, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, s.row())
	}
	r.rep.Blank()
	r.rep.Summary(rows)
}

// Probe checks the service answers at all. Only a transport failure fails it.
func (r *Runner) Probe(ctx context.Context) StageResult {
	start := time.Now()
	err := r.svc.Ping(ctx)
	res := StageResult{Phase: PhaseProbe, Requests: 1, Duration: time.Since(start), Err: err}
	if err != nil {
		r.rep.Error("Could not connect to %s server at %s (port %s).", r.cfg.ServiceName, r.cfg.ServerURL, r.cfg.Port())
		r.rep.Hint("Please ensure the %s server is running.", r.cfg.ServiceName)
		r.log.Debug("probe failed", zap.Error(err))
		return res
	}
	r.log.Debug("probe ok", zap.Duration("took", res.Duration))
	return res
}

// Load inserts TotalVectors records one at a time and stops at the first failure.
func (r *Runner) Load(ctx context.Context) StageResult {
	total := r.cfg.TotalVectors
	r.rep.Info("Starting generation and insertion of %d vectors...", total)

	start := time.Now()
	for i := 0; i < total; i++ {
		id := r.cfg.IDPrefix + strconv.Itoa(i)
		vector := r.gen.Vector(r.cfg.Dimension)

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return r.insertFailed(id, i, start, err)
			}
		}

		sent := time.Now()
		if err := r.svc.Insert(ctx, id, vector); err != nil {
			return r.insertFailed(id, i+1, start, err)
		}
		r.metrics.InsertDuration.Observe(time.Since(sent).Seconds())
		r.metrics.Inserts.Inc()

		if i%r.cfg.ProgressEvery == 0 {
			r.rep.Detail("Processed %d vectors...", i)
		}
	}
	elapsed := time.Since(start)

	r.rep.Success("Insertion complete. Total time: %.2fs", elapsed.Seconds())
	if total > 0 && elapsed > 0 {
		throughput := float64(total) / elapsed.Seconds()
		line := fmt.Sprintf("Throughput: %s vectors/s", humanize.CommafWithDigits(throughput, 2))
		if bc, ok := r.svc.(byteCounter); ok {
			line += fmt.Sprintf(", %s sent", humanize.Bytes(uint64(bc.BytesSent())))
		}
		r.rep.Detail("%s", line)
	}
	r.log.Debug("load complete", zap.Int("count", total), zap.Duration("took", elapsed))

	return StageResult{Phase: PhaseLoad, Requests: total, Duration: elapsed}
}

func (r *Runner) insertFailed(id string, attempted int, start time.Time, err error) StageResult {
	r.metrics.InsertFailures.Inc()
	r.rep.Error("Failed to insert %s: %v", id, err)
	return StageResult{
		Phase:    PhaseLoad,
		Requests: attempted,
		Duration: time.Since(start),
		Err:      &InsertError{ID: id, Err: err},
	}
}

// Query sends one random search and prints what came back.
func (r *Runner) Query(ctx context.Context) StageResult {
	r.rep.Blank()
	r.rep.Info("Executing search query...")

	vector := r.gen.Vector(r.cfg.Dimension)

	res, err := r.svc.Search(ctx, vector, r.cfg.TopK)
	if err != nil {
		r.rep.Error("Search request failed: %v", err)
		return StageResult{Phase: PhaseQuery, Requests: 1, Err: &SearchError{Err: err}}
	}
	r.metrics.Searches.Inc()
	r.metrics.SearchDuration.Observe(res.Elapsed.Seconds())

	r.rep.Success("Search completed.")
	r.rep.Detail("Client Latency:   %.2fms", float64(res.Elapsed)/float64(time.Millisecond))
	r.rep.Detail("Server Processing: %s", res.Latency)

	r.rep.Blank()
	r.rep.Block(fmt.Sprintf("Top %d Results:", r.cfg.TopK))
	r.rep.Block(indent(res.Results))

	return StageResult{Phase: PhaseQuery, Requests: 1, Duration: res.Elapsed}
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
