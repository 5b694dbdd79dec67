// Package pipeline runs an uploaded report through extraction, recognition,
// classification and the history merge, and tracks the state of the latest
// upload.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/classify"
	"github.com/ecotown/biomarker-atlas/pkg/services/history"
	"github.com/ecotown/biomarker-atlas/pkg/services/ocr"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
	"github.com/ecotown/biomarker-atlas/pkg/store/memory"
)

const pdfMIME = "application/pdf"

type Upload struct {
	Filename string
	Data     []byte
}

type Outcome struct {
	Report  domain.RecognizedReport
	Merged  []string
	Record  domain.PatientRecord
	Summary domain.SummaryStats
	Upload  domain.ReportRef
}

type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (domain.ExtractionResult, error)
}

type FieldRecognizer interface {
	Recognize(ctx context.Context, text, filename string) domain.RecognizedReport
}

// RemoteExtractor replaces the local extract and recognize stages.
type RemoteExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (domain.RecognizedReport, error)
}

type Controller interface {
	Process(ctx context.Context, upload Upload) (Outcome, error)
	Extract(ctx context.Context, upload Upload) (domain.ExtractionResult, error)
	Status() domain.UploadState
}

type Dependencies struct {
	Store      memory.Store
	Extractor  TextExtractor
	OCR        ocr.TextRecognizer
	Recognizer FieldRecognizer
	// Remote, when set, is used instead of Extractor, OCR and Recognizer.
	Remote     RemoteExtractor
	Classifier *classify.Classifier
	Merger     *history.Merger
	Aggregator *summary.Aggregator

	MaxUploadBytes int64
	Now            func() time.Time
}

type DefaultController struct {
	deps Dependencies

	mu    sync.Mutex
	state domain.UploadState
}

func NewController(deps Dependencies) *DefaultController {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DefaultController{
		deps:  deps,
		state: domain.UploadState{Status: domain.UploadStatusIdle, UpdatedAt: deps.Now()},
	}
}

func (ctrl *DefaultController) Status() domain.UploadState {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.state
}

func (ctrl *DefaultController) setState(status domain.UploadStatus, filename, message string) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	ctrl.state = domain.UploadState{
		Status:    status,
		Message:   message,
		Filename:  filename,
		UpdatedAt: ctrl.deps.Now(),
	}
}

// Extract runs only the text extraction stage.
func (ctrl *DefaultController) Extract(ctx context.Context, upload Upload) (domain.ExtractionResult, error) {
	if len(upload.Data) == 0 {
		return domain.ExtractionResult{}, domain.InputError("No file uploaded", nil)
	}
	return ctrl.deps.Extractor.Extract(ctx, upload.Data)
}

// Process runs the full pipeline. The patient record is only written after
// recognition succeeded, so a failed upload leaves it untouched.
func (ctrl *DefaultController) Process(ctx context.Context, upload Upload) (Outcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("filename", upload.Filename).Logger()
	ctx = logger.WithContext(ctx)

	ctrl.setState(domain.UploadStatusUploading, upload.Filename, "Processing your report...")

	outcome, err := ctrl.process(ctx, upload)
	if err != nil {
		logger.Error().Err(err).Msg("report processing failed")
		ctrl.setState(domain.UploadStatusError, upload.Filename, domain.UserMessage(err))
		return Outcome{}, err
	}

	logger.Info().
		Str("report_id", outcome.Upload.ReportID).
		Str("method", string(outcome.Report.Method)).
		Strs("merged", outcome.Merged).
		Msg("report processed")
	ctrl.setState(domain.UploadStatusSuccess, upload.Filename, "Report processed successfully!")
	return outcome, nil
}

func (ctrl *DefaultController) process(ctx context.Context, upload Upload) (Outcome, error) {
	if err := ctrl.validate(upload); err != nil {
		return Outcome{}, err
	}

	report, err := ctrl.recognize(ctx, upload)
	if err != nil {
		return Outcome{}, err
	}

	var (
		merged []string
		ref    domain.ReportRef
	)
	record, err := ctrl.deps.Store.Update(ctx, func(r domain.PatientRecord) (domain.PatientRecord, error) {
		next, names := ctrl.deps.Merger.MergeReport(r, report)
		merged = names
		ref = domain.ReportRef{
			ID:          uuid.NewString(),
			Filename:    upload.Filename,
			ReportID:    report.PatientInfo.ID,
			PatientName: next.Info.Name,
			ReportDate:  report.PatientInfo.ReportDate,
			Method:      report.Method,
			Extracted:   names,
			ProcessedAt: ctrl.deps.Now(),
		}
		next.Reports = append(next.Reports, ref)
		return next, nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to update patient record: %w", err)
	}

	return Outcome{
		Report:  report,
		Merged:  merged,
		Record:  record,
		Summary: ctrl.deps.Aggregator.Compute(record.Biomarkers),
		Upload:  ref,
	}, nil
}

func (ctrl *DefaultController) validate(upload Upload) error {
	if len(upload.Data) == 0 {
		return domain.InputError("No file uploaded", nil)
	}
	if ctrl.deps.MaxUploadBytes > 0 && int64(len(upload.Data)) > ctrl.deps.MaxUploadBytes {
		return domain.InputError(fmt.Sprintf("File exceeds the %d MB upload limit", ctrl.deps.MaxUploadBytes>>20), nil)
	}
	if mt := mimetype.Detect(upload.Data); !mt.Is(pdfMIME) {
		return domain.InputError("Only PDF reports are supported", fmt.Errorf("detected %s", mt.String()))
	}
	return nil
}

func (ctrl *DefaultController) recognize(ctx context.Context, upload Upload) (domain.RecognizedReport, error) {
	if ctrl.deps.Remote != nil {
		return ctrl.deps.Remote.Extract(ctx, upload.Filename, upload.Data)
	}

	res, err := ctrl.deps.Extractor.Extract(ctx, upload.Data)
	if err != nil {
		return domain.RecognizedReport{}, err
	}

	text, method := res.Text, res.Method
	if res.NeedsOCR() {
		if ctrl.deps.OCR == nil {
			return domain.RecognizedReport{}, domain.ExtractionError("document has no text layer and OCR is not configured", nil)
		}
		text, err = ctrl.deps.OCR.RecognizeText(ctx, upload.Filename, upload.Data)
		if err != nil {
			return domain.RecognizedReport{}, domain.ExtractionError("text recognition failed", err)
		}
		method = domain.MethodOCR
		zerolog.Ctx(ctx).Info().Msg("text layer missing, used OCR")
	}

	report := ctrl.deps.Recognizer.Recognize(ctx, text, upload.Filename)
	report.Method = method
	return ctrl.deps.Classifier.ClassifyReport(report), nil
}
