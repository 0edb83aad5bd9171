package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/nao1215/mojifix/internal/model"
	"github.com/nao1215/mojifix/internal/normalize"
)

// defaultFileMode is used when a written file's original mode is unknown.
const defaultFileMode fs.FileMode = 0o644

// ReadStep loads the document's file into memory.
type ReadStep struct{}

// NewReadStep creates a new read step.
func NewReadStep() *ReadStep {
	return &ReadStep{}
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads the whole file at doc.Path.
func (s *ReadStep) Do(_ context.Context, doc *model.Document) error {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResourceUnreadable, doc.Path, err)
	}
	doc.Load(string(data))
	return nil
}

// CleanStep removes mojibake with a normalize.Normalizer.
type CleanStep struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// CleanStepOption configures a CleanStep.
type CleanStepOption func(*CleanStep)

// WithCleanLogger sets a custom logger for the clean step.
func WithCleanLogger(logger *slog.Logger) CleanStepOption {
	return func(s *CleanStep) {
		s.logger = logger
	}
}

// NewCleanStep creates a new clean step. A nil normalizer means the
// built-in table.
func NewCleanStep(n *normalize.Normalizer, opts ...CleanStepOption) *CleanStep {
	if n == nil {
		n = normalize.Default()
	}
	s := &CleanStep{
		normalizer: n,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CleanStep) Name() string {
	return "clean"
}

// Do normalizes the document content.
func (s *CleanStep) Do(_ context.Context, doc *model.Document) error {
	result := s.normalizer.Apply(doc.Content)
	for _, f := range result.Fixes {
		s.logger.Debug("corrupted sequence",
			"path", doc.Path,
			"rule", f.Rule,
			"offset", f.Offset,
			"seq", f.Original,
			"likely", f.Likely,
		)
	}
	doc.Update(result.Text, result.Fixes)
	return nil
}

// DecorateStep inserts glyphs with a normalize.Decorator.
type DecorateStep struct {
	decorator *normalize.Decorator
	logger    *slog.Logger
}

// DecorateStepOption configures a DecorateStep.
type DecorateStepOption func(*DecorateStep)

// WithDecorateLogger sets a custom logger for the decorate step.
func WithDecorateLogger(logger *slog.Logger) DecorateStepOption {
	return func(s *DecorateStep) {
		s.logger = logger
	}
}

// NewDecorateStep creates a new decorate step.
func NewDecorateStep(d *normalize.Decorator, opts ...DecorateStepOption) *DecorateStep {
	s := &DecorateStep{
		decorator: d,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DecorateStep) Name() string {
	return "decorate"
}

// Do applies the insertion rules to the document content.
func (s *DecorateStep) Do(_ context.Context, doc *model.Document) error {
	result := s.decorator.Apply(doc.Content)
	if result.Changed() {
		s.logger.Debug("glyphs inserted",
			"path", doc.Path,
			"count", len(result.Fixes),
		)
	}
	doc.Update(result.Text, result.Fixes)
	return nil
}

// WriteStep writes the document back to its path.
// Unchanged documents are not rewritten.
type WriteStep struct {
	dryRun bool
}

// NewWriteStep creates a new write step. With dryRun set the step only
// marks the document as a dry run.
func NewWriteStep(dryRun bool) *WriteStep {
	return &WriteStep{dryRun: dryRun}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes doc.Content to doc.Path, keeping the file's permission bits.
func (s *WriteStep) Do(_ context.Context, doc *model.Document) error {
	if s.dryRun {
		doc.DryRun = true
		return nil
	}
	if !doc.Changed() {
		return nil
	}

	mode := defaultFileMode
	if info, err := os.Stat(doc.Path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(doc.Path, []byte(doc.Content), mode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, doc.Path, err)
	}
	doc.Written = true
	return nil
}

// Recorder stores processed documents. database.HistoryDB implements it.
type Recorder interface {
	SaveRun(ctx context.Context, doc *model.Document) (int64, error)
}

// HistoryStep records written documents with a Recorder.
// A recording failure is logged and does not fail the document, because
// the file itself was already written.
type HistoryStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// HistoryStepOption configures a HistoryStep.
type HistoryStepOption func(*HistoryStep)

// WithHistoryLogger sets a custom logger for the history step.
func WithHistoryLogger(logger *slog.Logger) HistoryStepOption {
	return func(s *HistoryStep) {
		s.logger = logger
	}
}

// NewHistoryStep creates a new history step.
func NewHistoryStep(recorder Recorder, opts ...HistoryStepOption) *HistoryStep {
	s := &HistoryStep{
		recorder: recorder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do saves the run when the document was written.
func (s *HistoryStep) Do(ctx context.Context, doc *model.Document) error {
	if !doc.Written {
		return nil
	}

	id, err := s.recorder.SaveRun(ctx, doc)
	if err != nil {
		s.logger.Warn("failed to record run",
			"path", doc.Path,
			"error", err,
		)
		return nil
	}

	s.logger.Debug("run recorded",
		"path", doc.Path,
		"id", id,
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Normalizer is the cleanup engine. Nil skips the clean step.
	Normalizer *normalize.Normalizer

	// Decorator is the insertion engine. Nil skips the decorate step.
	Decorator *normalize.Decorator

	// DryRun disables writing and recording.
	DryRun bool

	// Recorder stores written documents. Nil skips the history step.
	Recorder Recorder
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineNormalizer sets the cleanup engine. Nil disables cleanup.
func WithPipelineNormalizer(n *normalize.Normalizer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Normalizer = n
	}
}

// WithPipelineDecorator sets the insertion engine.
func WithPipelineDecorator(d *normalize.Decorator) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Decorator = d
	}
}

// WithPipelineDryRun enables or disables dry-run mode.
func WithPipelineDryRun(dryRun bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DryRun = dryRun
	}
}

// WithPipelineRecorder sets the history recorder.
func WithPipelineRecorder(r Recorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = r
	}
}

// DefaultPipeline creates the standard read, clean, decorate, write and
// history pipeline. Cleanup uses the built-in table unless overridden.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts pipeline config options.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Normalizer: normalize.Default(),
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddStep(NewReadStep())
	if cfg.Normalizer != nil {
		p.AddStep(NewCleanStep(cfg.Normalizer, WithCleanLogger(p.logger)))
	}
	if cfg.Decorator != nil {
		p.AddStep(NewDecorateStep(cfg.Decorator, WithDecorateLogger(p.logger)))
	}
	p.AddStep(NewWriteStep(cfg.DryRun))
	if cfg.Recorder != nil && !cfg.DryRun {
		p.AddStep(NewHistoryStep(cfg.Recorder, WithHistoryLogger(p.logger)))
	}

	return p
}
