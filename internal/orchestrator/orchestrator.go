package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/talentlens/internal/model"
)

// Orchestrator owns the screening pipeline for one batch:
// validate → upload job description → upload + analyze each resume → collect.
//
// Failures are fail-fast: the first failing resume aborts the batch and no
// partial results are returned.
type Orchestrator struct {
	backend     model.Backend
	filter      model.DocumentFilter
	concurrency int
	observer    Observer
	logger      *slog.Logger
}

// New creates an orchestrator. filter may be nil to skip local document
// checks. concurrency <= 1 processes resumes one at a time in input order.
func New(backend model.Backend, filter model.DocumentFilter, concurrency int, logger *slog.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		backend:     backend,
		filter:      filter,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SetObserver registers fn to receive progress events. With concurrency > 1
// fn is called from several goroutines.
func (o *Orchestrator) SetObserver(fn Observer) {
	o.observer = fn
}

// Run screens every resume in batch against its job description and returns
// one result per resume, in input order. Errors are *model.Error.
func (o *Orchestrator) Run(ctx context.Context, batch model.Batch) ([]model.AnalysisResult, error) {
	if err := o.validate(batch); err != nil {
		return nil, err
	}

	start := time.Now()
	total := len(batch.Resumes)

	o.emit(Event{Stage: StageJobDescription, Index: -1, Total: total})
	var jdID model.RemoteID
	err := guard("", func() error {
		var err error
		jdID, err = o.submitJobDescription(ctx, batch.JobDescription)
		if err != nil {
			return &model.Error{Kind: model.KindUpload, Err: err}
		}
		return nil
	})
	if err != nil {
		o.logger.Error("job description upload failed", "error", err)
		return nil, err
	}
	o.logger.Debug("job description uploaded", "id", jdID)

	var results []model.AnalysisResult
	if o.concurrency == 1 {
		results, err = o.runSequential(ctx, batch.Resumes, jdID)
	} else {
		results, err = o.runConcurrent(ctx, batch.Resumes, jdID)
	}
	if err != nil {
		o.logger.Error("batch aborted", "error", err)
		return nil, err
	}

	o.emit(Event{Stage: StageDone, Index: total - 1, Total: total})
	o.logger.Info("batch analyzed",
		"resumes", total,
		"job_description_id", jdID,
		"concurrency", o.concurrency,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return results, nil
}

func (o *Orchestrator) validate(batch model.Batch) error {
	jd := batch.JobDescription
	if len(batch.Resumes) == 0 || (jd.File == nil && strings.TrimSpace(jd.Text) == "") {
		return model.ValidationError("Please provide both resumes and a job description")
	}
	if o.filter == nil {
		return nil
	}

	if jd.File != nil {
		if err := o.check(*jd.File); err != nil {
			return err
		}
	}
	for _, r := range batch.Resumes {
		if err := o.check(r); err != nil {
			return err
		}
	}
	return nil
}

// check runs the filter on doc. Filters parse untrusted files, so a panic
// is reported like any other unexpected failure.
func (o *Orchestrator) check(doc model.Document) error {
	var checkErr error
	if err := guard(doc.Name, func() error {
		checkErr = o.filter.Check(doc)
		return nil
	}); err != nil {
		return err
	}
	if checkErr != nil {
		return &model.Error{Kind: model.KindValidation, Err: checkErr}
	}
	return nil
}

// submitJobDescription makes exactly one upload call: the file when present,
// the text otherwise.
func (o *Orchestrator) submitJobDescription(ctx context.Context, jd model.JobDescription) (model.RemoteID, error) {
	if jd.File != nil {
		return o.backend.UploadJobDescription(ctx, *jd.File)
	}
	return o.backend.UploadJobDescriptionText(ctx, strings.TrimSpace(jd.Text))
}

func (o *Orchestrator) runSequential(ctx context.Context, resumes []model.Document, jdID model.RemoteID) ([]model.AnalysisResult, error) {
	results := make([]model.AnalysisResult, 0, len(resumes))
	for i, doc := range resumes {
		var res model.AnalysisResult
		err := guard(doc.Name, func() error {
			var err error
			res, err = o.processResume(ctx, i, len(resumes), doc, jdID)
			return err
		})
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runConcurrent dispatches up to o.concurrency resumes at once. Each goroutine
// writes only its own index, so results keep input order.
func (o *Orchestrator) runConcurrent(ctx context.Context, resumes []model.Document, jdID model.RemoteID) ([]model.AnalysisResult, error) {
	results := make([]model.AnalysisResult, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	dispatched := 0
	for i, doc := range resumes {
		if gctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			return guard(doc.Name, func() error {
				res, err := o.processResume(gctx, i, len(resumes), doc, jdID)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Dispatch stops early without a goroutine error only when ctx was cancelled.
	if dispatched < len(resumes) {
		return nil, &model.Error{Kind: model.KindUpload, File: resumes[dispatched].Name, Err: ctx.Err()}
	}
	return results, nil
}

func (o *Orchestrator) processResume(ctx context.Context, i, total int, doc model.Document, jdID model.RemoteID) (model.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return model.AnalysisResult{}, &model.Error{Kind: model.KindUpload, File: doc.Name, Err: err}
	}

	o.emit(Event{Stage: StageUpload, File: doc.Name, Index: i, Total: total})
	resumeID, err := o.backend.UploadResume(ctx, doc)
	if err != nil {
		return model.AnalysisResult{}, &model.Error{Kind: model.KindUpload, File: doc.Name, Err: err}
	}

	o.emit(Event{Stage: StageAnalysis, File: doc.Name, Index: i, Total: total})
	res, err := o.backend.Analyze(ctx, model.AnalysisRequest{ResumeID: resumeID, JobDescriptionID: jdID})
	if err != nil {
		return model.AnalysisResult{}, &model.Error{Kind: model.KindAnalysis, File: doc.Name, Err: err}
	}

	res.FileName = doc.Name
	if res.ResumeID == "" {
		res.ResumeID = resumeID
	}

	o.logger.Debug("resume analyzed",
		"file", doc.Name,
		"resume_id", resumeID,
		"overall_fit", res.Analysis.OverallFit,
	)
	return res, nil
}

func (o *Orchestrator) emit(e Event) {
	if o.observer != nil {
		o.observer(e)
	}
}

// guard turns a panic inside fn into a KindUnknown error.
func guard(file string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &model.Error{Kind: model.KindUnknown, File: file, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn()
}
