package bulletin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"filebulletin/internal/catalog"
	"filebulletin/internal/checkpoint"
	"filebulletin/internal/config"
	"filebulletin/internal/delivery"
	"filebulletin/internal/models"
	"filebulletin/internal/render"
	"filebulletin/internal/textwrap"
	"filebulletin/internal/worker"
)

// wrapColumns is the rendering width file descriptions are reflowed to.
const wrapColumns = 79

// Service runs the announcement pipeline: resolve the reporting window,
// collect and enrich new files per area, render the report and deliver it.
type Service struct {
	catalog     *catalog.Store
	checkpoint  *checkpoint.Store
	outbox      *delivery.Outbox
	pool        *worker.Pool
	boardName   string
	optionsPath string
	now         func() time.Time
}

func NewService(db *sql.DB, kv checkpoint.KV, cfg *config.Config) *Service {
	return &Service{
		catalog:     catalog.NewStore(db),
		checkpoint:  checkpoint.NewStore(kv, checkpoint.DefaultKey),
		outbox:      delivery.NewOutbox(db),
		pool:        worker.NewPool(cfg.BasicConfig.FetchWorkers),
		boardName:   cfg.BasicConfig.BoardName,
		optionsPath: cfg.BasicConfig.OptionsPath,
		now:         time.Now,
	}
}

// RunResult summarizes one run.
type RunResult struct {
	Since      time.Time `json:"since"`
	Now        time.Time `json:"now"`
	TotalFiles int       `json:"total_files"`
	TotalBytes int64     `json:"total_bytes"`
	Delivered  int       `json:"delivered"`
	Skipped    bool      `json:"skipped"`
}

// Run executes one announcement run. destinations must name at least one
// channel; optionsLocation may be empty to use the configured default
// options source (or plain defaults). The run is linear and fails fast; the
// checkpoint advances before any scanning, so a failed run skips rather than
// re-announces.
func (s *Service) Run(ctx context.Context, destinations []string, optionsLocation string) (*RunResult, error) {
	dests := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if d = strings.TrimSpace(d); d != "" {
			dests = append(dests, d)
		}
	}
	if len(dests) == 0 {
		return nil, fmt.Errorf("%w: at least one destination required", ErrMissingParameter)
	}

	if optionsLocation == "" {
		optionsLocation = s.optionsPath
	}
	opts, err := LoadOptions(optionsLocation)
	if err != nil {
		return nil, err
	}
	include, err := opts.CompileAreaPattern()
	if err != nil {
		return nil, err
	}

	tpls, err := loadTemplates(opts)
	if err != nil {
		return nil, err
	}
	descIndent := textwrap.IndentOf(tpls.Entry, "{fileDesc}")

	since, now, err := s.resolveWindow(ctx)
	if err != nil {
		return nil, err
	}

	areas, err := s.catalog.ListAreas(ctx, include)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	var reports []models.AreaReport
	for _, area := range areas {
		rep, err := s.collectArea(ctx, area, since, now, opts, descIndent)
		if err != nil {
			return nil, err
		}
		if rep != nil {
			reports = append(reports, *rep)
		}
	}

	rc := render.Context{}
	rc.Set("boardName", s.boardName)
	rc.Set("nowTs", now.Format(opts.TSFormat))
	rc.Set("sinceTs", since.Format(opts.TSFormat))

	res := render.Render(tpls, rc, reports, opts.TSFormat)
	result := &RunResult{
		Since:      since,
		Now:        now,
		TotalFiles: res.TotalFiles,
		TotalBytes: res.TotalBytes,
	}
	if res.TotalFiles == 0 {
		result.Skipped = true
		return result, nil
	}

	// Advisory only: oversized reports go out whole.
	if opts.PostMaxSizeTarget > 0 && len(res.Text) > opts.PostMaxSizeTarget {
		log.Printf("bulletin body is %d bytes, above post size target %d", len(res.Text), opts.PostMaxSizeTarget)
	}

	env := delivery.Envelope{
		From:          opts.From,
		To:            opts.To,
		SubjectFormat: opts.SubjectFormat,
		Body:          res.Text,
		BodyEncoding:  opts.TemplateEncoding,
	}
	delivered, err := s.outbox.Deliver(ctx, env, dests, rc)
	result.Delivered = delivered
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return result, nil
}

// resolveWindow reads the watermark once and immediately advances it to now,
// before any scanning. On the first-ever run there is no window yet: the
// watermark is created and the run stops with ErrNotInitialized.
func (s *Service) resolveWindow(ctx context.Context) (since, now time.Time, err error) {
	now = s.now().UTC()
	last, ok, err := s.checkpoint.Last(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("resolve window: %w", err)
	}
	if !ok {
		if err := s.checkpoint.Advance(ctx, now); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bootstrap checkpoint: %w", err)
		}
		return time.Time{}, time.Time{}, ErrNotInitialized
	}
	if err := s.checkpoint.Advance(ctx, now); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("advance checkpoint: %w", err)
	}
	return last, now, nil
}

// collectArea lists an area's new files, applies the per-area cap, loads the
// records in parallel and reflows their descriptions. Returns nil when the
// area has nothing new.
func (s *Service) collectArea(ctx context.Context, area models.Area, since, now time.Time, opts Options, descIndent int) (*models.AreaReport, error) {
	ids, err := s.catalog.FindNewFiles(ctx, area.Tag, since, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	included := ids
	remaining := 0
	if opts.MaxFilesPerArea > 0 && len(ids) > opts.MaxFilesPerArea {
		included = ids[:opts.MaxFilesPerArea]
		remaining = len(ids) - len(included)
	}

	// Parallel I/O, sequential aggregation: records land in their slot, byte
	// totals are summed afterwards in catalog order.
	files := make([]*models.FileRecord, len(included))
	err = s.pool.Run(ctx, len(included), func(ctx context.Context, i int) error {
		rec, err := s.catalog.LoadFile(ctx, included[i])
		if err != nil {
			return err
		}
		files[i] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: enrich area %s: %w", ErrCatalog, area.Tag, err)
	}

	var bytes int64
	for _, f := range files {
		f.Description = textwrap.Reflow(f.Description, wrapColumns, descIndent)
		bytes += f.Size
	}

	return &models.AreaReport{
		Area:      area,
		Files:     files,
		Remaining: remaining,
		Bytes:     bytes,
	}, nil
}
