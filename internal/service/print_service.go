// internal/service/print_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/driver/escpos"
	"receipt-service/internal/events"
	"receipt-service/internal/model"
	"receipt-service/internal/protocol"
	"receipt-service/internal/receipt"
	"receipt-service/internal/render"
	"receipt-service/internal/repository"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

var (
	ErrUnsupportedPaper  = errors.New("unsupported paper width")
	ErrUnsupportedFormat = errors.New("unsupported render format")
)

// Format selects the rendition returned by Render
type Format string

const (
	FormatESCPOS Format = "escpos"
	FormatMarkup Format = "markup"
	FormatText   Format = "text"
)

// PrintOptions carries the per-request print choices
type PrintOptions struct {
	// JobID identifies the job record; a new id is assigned when zero
	JobID      uuid.UUID
	Method     transport.Method
	Paper      receipt.PaperWidth
	ShowLogo   bool
	AutoCut    bool
	OpenDrawer bool

	Network *transport.NetworkTarget
	Serial  *protocol.SerialConfig
	USB     *protocol.USBConfig
}

// RenderOptions carries the choices of a render-only request
type RenderOptions struct {
	Format     Format
	Paper      receipt.PaperWidth
	ShowLogo   bool
	AutoCut    bool
	OpenDrawer bool
}

// Rendered is a receipt in one output format
type Rendered struct {
	Format      Format               `json:"format"`
	ContentType string               `json:"content_type"`
	Paper       receipt.PaperProfile `json:"paper"`
	Body        []byte               `json:"-"`
}

// PrintService turns sales into receipts and dispatches them
type PrintService struct {
	registry     *transport.Registry
	jobs         repository.JobRepository
	publisher    events.Publisher
	defaultPaper receipt.PaperWidth
	location     *time.Location
	logger       *utils.ServiceLogger
}

// NewPrintService creates a new print service. publisher may be nil.
func NewPrintService(
	registry *transport.Registry,
	jobs repository.JobRepository,
	publisher events.Publisher,
	defaultPaper receipt.PaperWidth,
	location *time.Location,
	logger *zap.Logger,
) *PrintService {
	return &PrintService{
		registry:     registry,
		jobs:         jobs,
		publisher:    publisher,
		defaultPaper: defaultPaper,
		location:     location,
		logger:       utils.NewServiceLogger(logger, "print-service"),
	}
}

// Print renders the sale for the requested method and hands it to the
// matching transport. It makes a single attempt and returns the transport's
// result unchanged. An unknown method fails before anything is rendered.
func (s *PrintService) Print(ctx context.Context, sale receipt.Sale, company receipt.Company, opts PrintOptions) transport.Result {
	route, err := s.registry.Lookup(opts.Method)
	if err != nil {
		s.logger.Warn("Print rejected", zap.String("method", string(opts.Method)), zap.Error(err))
		return transport.Fail(err)
	}

	if opts.JobID == uuid.Nil {
		opts.JobID = uuid.New()
	}
	jobLogger := utils.NewJobLogger(s.logger.Logger, string(opts.Method), opts.JobID.String())
	jobLogger.Start(zap.String("sale_id", sale.ID), zap.String("transport", route.TransportName()))

	job := &model.PrintJob{
		ID:        opts.JobID,
		SaleID:    sale.ID,
		Method:    model.PrintMethod(opts.Method),
		Transport: route.TransportName(),
		Options: model.JSONObject{
			"show_logo":   opts.ShowLogo,
			"auto_cut":    opts.AutoCut,
			"open_drawer": opts.OpenDrawer,
		},
		CreatedAt: time.Now(),
	}

	result, size := s.dispatch(ctx, route, sale, company, opts, job)

	job.Bytes = size
	job.DurationMs = int(jobLogger.Elapsed().Milliseconds())
	if result.Success {
		job.Status = model.JobStatusSuccess
		if result.Location != "" {
			location := result.Location
			job.Location = &location
		}
		jobLogger.Success(zap.Int("bytes", size))
	} else {
		job.Status = model.JobStatusFailed
		message := result.Error
		job.ErrorMessage = &message
		jobLogger.Failure(result.Error)
	}

	s.recordJob(ctx, job)
	return result
}

func (s *PrintService) dispatch(
	ctx context.Context,
	route transport.Route,
	sale receipt.Sale,
	company receipt.Company,
	opts PrintOptions,
	job *model.PrintJob,
) (transport.Result, int) {
	profile, err := s.profile(opts.Paper)
	job.Paper = string(opts.Paper)
	if err != nil {
		return transport.Fail(err), 0
	}
	job.Paper = string(profile.Width)

	dest := transport.Destination{
		JobID:   opts.JobID.String(),
		Network: opts.Network,
		Serial:  opts.Serial,
		USB:     opts.USB,
	}
	if route.Validate != nil {
		if err := route.Validate(dest); err != nil {
			return transport.Fail(err), 0
		}
	}

	record := receipt.Build(sale, company, receipt.Options{ShowLogo: opts.ShowLogo, Location: s.location})

	if route.IsBinary() {
		payload := encode(record, profile, opts.AutoCut, opts.OpenDrawer)
		return route.Binary.Send(ctx, payload, dest), len(payload)
	}

	document, err := render.Markup(record, profile)
	if err != nil {
		return transport.Fail(fmt.Errorf("failed to render receipt: %w", err)), 0
	}
	return route.Markup.Deliver(ctx, document, dest), len(document)
}

// Render produces the receipt in the requested format without printing it
func (s *PrintService) Render(sale receipt.Sale, company receipt.Company, opts RenderOptions) (*Rendered, error) {
	profile, err := s.profile(opts.Paper)
	if err != nil {
		return nil, err
	}

	record := receipt.Build(sale, company, receipt.Options{ShowLogo: opts.ShowLogo, Location: s.location})
	rendered := &Rendered{Format: opts.Format, Paper: profile}

	switch opts.Format {
	case FormatESCPOS:
		rendered.ContentType = "application/octet-stream"
		rendered.Body = encode(record, profile, opts.AutoCut, opts.OpenDrawer)
	case FormatMarkup:
		document, err := render.Markup(record, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to render receipt: %w", err)
		}
		rendered.ContentType = "text/html; charset=utf-8"
		rendered.Body = []byte(document)
	case FormatText:
		rendered.ContentType = "text/plain; charset=utf-8"
		rendered.Body = []byte(render.PlainText(record))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}

	return rendered, nil
}

// Supports reports whether a method has a registered transport
func (s *PrintService) Supports(method transport.Method) bool {
	_, err := s.registry.Lookup(method)
	return err == nil
}

// Methods lists the configured print methods
func (s *PrintService) Methods() []transport.Method {
	return s.registry.Methods()
}

func (s *PrintService) profile(width receipt.PaperWidth) (receipt.PaperProfile, error) {
	if width == "" {
		width = s.defaultPaper
	}
	profile, ok := receipt.ProfileFor(width)
	if !ok {
		return receipt.PaperProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedPaper, width)
	}
	return profile, nil
}

// encode applies the finishing options before the encoder is built
func encode(record *receipt.Record, profile receipt.PaperProfile, autoCut, openDrawer bool) []byte {
	enc := escpos.EncodeReceipt(record, profile)
	if autoCut {
		enc.Cut(false)
	}
	if openDrawer {
		enc.OpenDrawer()
	}
	return enc.Build()
}

// recordJob stores the job and announces it. A request that was cancelled
// mid-print is still recorded.
func (s *PrintService) recordJob(ctx context.Context, job *model.PrintJob) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.jobs.Create(storeCtx, job); err != nil {
		s.logger.Error("Failed to record print job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	if s.publisher == nil {
		return
	}

	eventType, severity := model.EventJobCompleted, "INFO"
	data := model.JSONObject{
		"job_id":      job.ID.String(),
		"sale_id":     job.SaleID,
		"method":      string(job.Method),
		"transport":   job.Transport,
		"duration_ms": job.DurationMs,
	}
	if !job.Succeeded() {
		eventType, severity = model.EventJobFailed, "ERROR"
		data["error_message"] = *job.ErrorMessage
	}
	if job.Location != nil {
		data["location"] = *job.Location
	}
	s.publisher.Publish(model.NewEvent(eventType, "print-service", severity, data))
}
