package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"batchtrace/internal/audit"
	"batchtrace/internal/registry"
	"batchtrace/internal/report"
	"batchtrace/internal/verification/metrics"
	"batchtrace/internal/verification/tracer"
	"batchtrace/pkg/domain"
	dErrors "batchtrace/pkg/domain-errors"
)

// BatchLookup finds a record by batch code. Lookup must be a pure read.
type BatchLookup interface {
	Lookup(code string) (registry.BatchRecord, bool)
}

// CredentialIssuer mints a report credential for a resolved record.
type CredentialIssuer interface {
	Issue(ctx context.Context, rec registry.BatchRecord) (*report.Credential, error)
}

// AuditRecorder persists one audit entry per verification attempt.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Service runs the verification flow. Every call to Verify produces exactly
// one audit entry, whatever the outcome.
type Service struct {
	lookup    BatchLookup
	issuer    CredentialIssuer
	audit     AuditRecorder
	validator *Validator
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer replaces the default no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func NewService(lookup BatchLookup, issuer CredentialIssuer, auditor AuditRecorder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		lookup:    lookup,
		issuer:    issuer,
		audit:     auditor,
		validator: NewValidator(),
		tracer:    tracer.NewNoop(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify validates the submission, resolves the batch code, and issues a
// report credential. The audit entry is recorded in a deferred finalizer so
// no return path can skip it, and the recording context is detached from the
// request so a timed-out request still leaves its trail.
func (s *Service) Verify(ctx context.Context, req Request) (result *Result, err error) {
	normalized := domain.NormalizeBatchCode(req.BatchCode)
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrBatchCode, normalized),
	)
	start := time.Now()

	entry := audit.NewEntry(normalized, req.Mobile, req.Email, req.Location, req.UserAgent)
	entry.RequestID = req.RequestID

	defer func() {
		entry.Outcome, entry.Reason = classifyOutcome(err)
		recordCtx := context.WithoutCancel(ctx)
		if recErr := s.audit.Record(recordCtx, entry); recErr != nil {
			if s.metrics != nil {
				s.metrics.AuditWriteFailures.Inc()
			}
			s.logger.ErrorContext(recordCtx, "failed to record audit entry",
				"error", recErr,
				"batch_code", entry.BatchCode,
				"outcome", entry.Outcome,
			)
		}
		span.AddEvent(tracer.EventAuditRecorded,
			tracer.String(tracer.AttrOutcome, string(entry.Outcome)),
		)
		if s.metrics != nil {
			s.metrics.VerificationsTotal.WithLabelValues(string(entry.Outcome)).Inc()
			s.metrics.VerifyDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		}
		span.End(err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	rec, found := s.lookup.Lookup(normalized)
	span.SetAttributes(tracer.Bool(tracer.AttrFound, found))
	if !found {
		return nil, dErrors.New(dErrors.CodeNotFound,
			"Batch code not found. Please check the code on your pack.")
	}

	issueCtx, issueSpan := s.tracer.Start(ctx, tracer.SpanIssue)
	cred, issueErr := s.issuer.Issue(issueCtx, rec)
	issueSpan.End(issueErr)
	if issueErr != nil {
		if errors.Is(issueErr, context.DeadlineExceeded) {
			err = &dErrors.Error{Code: dErrors.CodeTimeout, Message: "verification timed out", Err: issueErr}
			return nil, err
		}
		err = issueErr
		return nil, err
	}
	span.SetAttributes(tracer.Bool(tracer.AttrFolder, cred.Folder))

	if s.metrics != nil {
		s.metrics.CredentialsIssued.WithLabelValues(credentialKind(cred)).Inc()
	}

	return &Result{
		Code:         rec.Code,
		ProductName:  rec.ProductName,
		TestDate:     rec.TestDate,
		LabName:      rec.LabName,
		ReportNumber: rec.ReportNumber,
		ReportURL:    cred.URL,
		DownloadURL:  cred.URL,
		Filename:     cred.Filename,
		ExpiresAt:    cred.ExpiresAt,
		Folder:       cred.Folder,
	}, nil
}

// classifyOutcome maps the Verify error to the audit outcome taxonomy.
func classifyOutcome(err error) (audit.Outcome, string) {
	if err == nil {
		return audit.OutcomeFound, ""
	}
	code := dErrors.CodeOf(err)
	switch {
	case dErrors.IsValidation(code) || code == dErrors.CodeBadRequest:
		return audit.OutcomeValidationFailed, err.Error()
	case code == dErrors.CodeNotFound:
		return audit.OutcomeNotFound, err.Error()
	case code == dErrors.CodeArtifactMissing:
		return audit.OutcomeArtifactMissing, err.Error()
	default:
		return audit.OutcomeSystemError, err.Error()
	}
}

func credentialKind(cred *report.Credential) string {
	switch {
	case cred.Folder:
		return "folder"
	case cred.ExpiresAt.IsZero():
		return "external"
	default:
		return "signed"
	}
}
