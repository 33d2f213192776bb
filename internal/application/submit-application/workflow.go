// internal/application/submit-application/workflow.go
package submitapplication

import (
	"context"
	stderrors "errors"
	"time"

	createapplicationrecord "internship-portal/internal/application/create-application-record"
	validateapplicationdata "internship-portal/internal/application/validate-application-data"
	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/common/observability"
	"internship-portal/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TaskType = "submit-application"

type Validator interface {
	Validate(ctx context.Context, input map[string]interface{}) (*validateapplicationdata.Output, error)
}

type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, app models.Application) (models.Application, error)
}

type IDGenerator interface {
	Next(ctx context.Context) (string, error)
}

type Notifier interface {
	Dispatch(app models.Application)
}

type SearchIndexer interface {
	IndexAsync(app models.Application)
}

// Workflow turns a request body into a stored application:
// validate, reject known duplicates, allocate the identifier, build the
// record, insert it, then hand it to notifications without waiting.
type Workflow struct {
	validator  Validator
	repository Repository
	ids        IDGenerator
	notifier   Notifier
	indexer    SearchIndexer
	obs        *observability.Observability
	tracer     trace.Tracer
	clock      func() time.Time
	logger     logger.Logger
}

// NewWorkflow wires the workflow. indexer and obs may be nil.
func NewWorkflow(
	validator Validator,
	repository Repository,
	ids IDGenerator,
	notifier Notifier,
	indexer SearchIndexer,
	obs *observability.Observability,
	log logger.Logger,
) *Workflow {
	return &Workflow{
		validator:  validator,
		repository: repository,
		ids:        ids,
		notifier:   notifier,
		indexer:    indexer,
		obs:        obs,
		tracer:     obs.Tracer(),
		clock:      time.Now,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// WithClock replaces the source of submittedAt.
func (w *Workflow) WithClock(clock func() time.Time) *Workflow {
	w.clock = clock
	return w
}

// Submit runs one submission. Every error returned is a *errors.StandardError.
func (w *Workflow) Submit(ctx context.Context, input map[string]interface{}) (*Output, error) {
	start := time.Now()
	ctx, span := w.tracer.Start(ctx, "application.submit")
	defer span.End()

	out, stage, err := w.run(ctx, span, input)

	outcome := OutcomeAccepted
	switch stage {
	case StageRejectedInvalid:
		outcome = OutcomeInvalid
	case StageRejectedDup:
		outcome = OutcomeDuplicate
	case StageFailed:
		outcome = OutcomeFailed
	}

	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	metrics.SubmissionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	w.obs.RecordSubmission(ctx, outcome)
	w.obs.RecordSubmissionDuration(ctx, time.Since(start), outcome)

	span.SetAttributes(attribute.String("submission.stage", string(stage)))
	if err != nil {
		span.SetStatus(codes.Error, string(errors.AsStandardError(err).Code))
		return nil, err
	}
	return out, nil
}

func (w *Workflow) run(ctx context.Context, span trace.Span, input map[string]interface{}) (*Output, Stage, error) {
	validated, err := w.validator.Validate(ctx, input)
	if err != nil {
		w.logger.Error("validator failed", map[string]interface{}{"error": err})
		return nil, StageFailed, errors.NewInternalError(err)
	}
	if !validated.IsValid {
		w.logger.Info("submission rejected", map[string]interface{}{
			"stage":      StageRejectedInvalid,
			"violations": len(validated.ValidationErrors),
		})
		return nil, StageRejectedInvalid, errors.NewValidationError(validated.ValidationErrors)
	}
	submission := validated.Submission

	exists, err := w.repository.ExistsByEmail(ctx, submission.Email)
	if err != nil {
		w.logger.Error("duplicate check failed", map[string]interface{}{
			"stage": StageReceived,
			"error": err,
		})
		return nil, StageFailed, errors.NewStorageUnavailableError(err)
	}
	if exists {
		w.logger.Info("submission rejected", map[string]interface{}{
			"stage": StageRejectedDup,
			"email": submission.Email,
		})
		return nil, StageRejectedDup, errors.NewDuplicateApplicationError(submission.Email, createapplicationrecord.ErrDuplicateApplication)
	}

	applicationID, err := w.ids.Next(ctx)
	if err != nil {
		w.logger.Error("identifier allocation failed", map[string]interface{}{
			"stage": StageDuplicateChecked,
			"error": err,
		})
		return nil, StageFailed, errors.NewStorageUnavailableError(err)
	}
	span.SetAttributes(attribute.String("application.id", applicationID))

	record := models.NewApplication(applicationID, submission, w.clock().UTC())

	stored, err := w.repository.Insert(ctx, record)
	if err != nil {
		// The identifier is spent either way; counters never move backwards.
		if stderrors.Is(err, createapplicationrecord.ErrDuplicateApplication) {
			w.logger.Info("submission rejected", map[string]interface{}{
				"stage":         StageRejectedDup,
				"email":         submission.Email,
				"applicationId": applicationID,
				"reason":        "unique index",
			})
			return nil, StageRejectedDup, errors.NewDuplicateApplicationError(submission.Email, err)
		}
		w.logger.Error("insert failed", map[string]interface{}{
			"stage":         StageIdentified,
			"applicationId": applicationID,
			"error":         err,
		})
		return nil, StageFailed, errors.NewSubmissionFailedError(err)
	}

	w.logger.Debug("application persisted", map[string]interface{}{
		"stage":         StagePersisted,
		"applicationId": stored.ApplicationID,
	})

	w.notifier.Dispatch(stored)
	if w.indexer != nil {
		w.indexer.IndexAsync(stored)
	}
	w.logger.Debug("notifications dispatched", map[string]interface{}{
		"stage":         StageDispatched,
		"applicationId": stored.ApplicationID,
	})

	w.logger.Info("application submitted", map[string]interface{}{
		"stage":         StageCompleted,
		"applicationId": stored.ApplicationID,
		"email":         stored.Email,
	})

	return &Output{ApplicationID: stored.ApplicationID, Application: stored}, StageCompleted, nil
}
