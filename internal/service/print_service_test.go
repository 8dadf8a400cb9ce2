package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/driver/escpos"
	"receipt-service/internal/model"
	"receipt-service/internal/receipt"
	"receipt-service/internal/repository"
	"receipt-service/internal/transport"
)

type recordingBinary struct {
	name   string
	result transport.Result
	calls  int
	last   []byte
	dest   transport.Destination
}

func (r *recordingBinary) Name() string { return r.name }

func (r *recordingBinary) Send(ctx context.Context, payload []byte, dest transport.Destination) transport.Result {
	r.calls++
	r.last = payload
	r.dest = dest
	return r.result
}

type recordingMarkup struct {
	result transport.Result
	calls  int
	last   string
}

func (r *recordingMarkup) Name() string { return "document" }

func (r *recordingMarkup) Deliver(ctx context.Context, document string, dest transport.Destination) transport.Result {
	r.calls++
	r.last = document
	return r.result
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.Event
}

func (p *recordingPublisher) Publish(event *model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fixture struct {
	service   *PrintService
	wireless  *recordingBinary
	network   *recordingBinary
	document  *recordingMarkup
	jobs      repository.JobRepository
	publisher *recordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		wireless:  &recordingBinary{name: "bluetooth", result: transport.OK()},
		network:   &recordingBinary{name: "network", result: transport.OK()},
		document:  &recordingMarkup{result: transport.OKAt("/api/v1/documents/receipt-1.pdf")},
		jobs:      repository.NewMemoryJobRepository(10),
		publisher: &recordingPublisher{},
	}

	registry := transport.NewRegistry(zap.NewNop())
	registry.RegisterBinary(transport.MethodWireless, f.wireless, nil)
	registry.RegisterBinary(transport.MethodNetworked, f.network, transport.RequireNetwork)
	registry.RegisterMarkup(transport.MethodDocument, f.document, nil)

	f.service = NewPrintService(registry, f.jobs, f.publisher, receipt.PaperWidth58, time.UTC, zap.NewNop())
	return f
}

func sale() receipt.Sale {
	return receipt.Sale{
		ID:        "A-1",
		CreatedAt: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
		Items: []receipt.SaleItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10"), LineTotal: decimal.RequireFromString("20")},
		},
		Subtotal:      decimal.RequireFromString("20"),
		Total:         decimal.RequireFromString("20"),
		PaymentMethod: receipt.PaymentPix,
	}
}

var acme = receipt.Company{Name: "Acme"}

func (f *fixture) onlyJob(t *testing.T) *model.PrintJob {
	t.Helper()
	jobs, total, err := f.jobs.List(context.Background(), &model.JobFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	return jobs[0]
}

func TestPrintUnknownMethod(t *testing.T) {
	f := newFixture()

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{Method: "fax"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported print method")
	assert.Zero(t, f.wireless.calls+f.network.calls+f.document.calls)

	_, total, err := f.jobs.List(context.Background(), &model.JobFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPrintNetworkedWithoutTarget(t *testing.T) {
	f := newFixture()

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{Method: transport.MethodNetworked})

	assert.False(t, result.Success)
	assert.Equal(t, transport.ErrMissingTarget.Error(), result.Error)
	assert.Zero(t, f.network.calls)

	job := f.onlyJob(t)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, "network", job.Transport)
}

func TestPrintBinaryFinishingOptions(t *testing.T) {
	tests := []struct {
		name       string
		autoCut    bool
		openDrawer bool
		suffix     []byte
	}{
		{name: "plain", suffix: nil},
		{name: "cut", autoCut: true, suffix: escpos.Commands.CutFull},
		{name: "drawer", openDrawer: true, suffix: escpos.Commands.DrawerKick},
		{name: "cut and drawer", autoCut: true, openDrawer: true, suffix: append(append([]byte{}, escpos.Commands.CutFull...), escpos.Commands.DrawerKick...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			result := f.service.Print(context.Background(), sale(), acme, PrintOptions{
				Method:     transport.MethodWireless,
				AutoCut:    tt.autoCut,
				OpenDrawer: tt.openDrawer,
			})

			require.True(t, result.Success)
			require.Equal(t, 1, f.wireless.calls)
			payload := f.wireless.last
			assert.True(t, bytes.HasPrefix(payload, escpos.Commands.Initialize))
			assert.Contains(t, string(payload), "2x Widget")

			if tt.suffix != nil {
				assert.True(t, bytes.HasSuffix(payload, tt.suffix))
			}
			assert.Equal(t, tt.autoCut, bytes.Contains(payload, escpos.Commands.CutFull))
			assert.Equal(t, tt.openDrawer, bytes.Contains(payload, escpos.Commands.DrawerKick))

			job := f.onlyJob(t)
			assert.Equal(t, len(payload), job.Bytes)
			assert.Equal(t, "58mm", job.Paper)
		})
	}
}

func TestPrintPassesTransportFailureThrough(t *testing.T) {
	f := newFixture()
	f.wireless.result = transport.FailMessage("bluetooth write failed: link lost")

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{Method: transport.MethodWireless})

	assert.Equal(t, transport.FailMessage("bluetooth write failed: link lost"), result)

	job := f.onlyJob(t)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "bluetooth write failed: link lost", *job.ErrorMessage)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, model.EventJobFailed, f.publisher.events[0].EventType)
}

func TestPrintNetworkedForwardsTarget(t *testing.T) {
	f := newFixture()
	jobID := uuid.New()
	target := &transport.NetworkTarget{Host: "192.168.0.50", Port: 9100}

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{
		JobID:   jobID,
		Method:  transport.MethodNetworked,
		Paper:   receipt.PaperWidth80,
		Network: target,
	})

	require.True(t, result.Success)
	assert.Equal(t, target, f.network.dest.Network)
	assert.Equal(t, jobID.String(), f.network.dest.JobID)

	job, err := f.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "80mm", job.Paper)
}

func TestPrintMarkupRoute(t *testing.T) {
	f := newFixture()

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{Method: transport.MethodDocument})

	require.True(t, result.Success)
	assert.Equal(t, "/api/v1/documents/receipt-1.pdf", result.Location)
	assert.Contains(t, f.document.last, "width: 220px")
	assert.Contains(t, f.document.last, "2x Widget")

	job := f.onlyJob(t)
	require.NotNil(t, job.Location)
	assert.Equal(t, result.Location, *job.Location)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, model.EventJobCompleted, event.EventType)
	assert.Equal(t, "A-1", event.Data["sale_id"])
}

func TestPrintUnsupportedPaper(t *testing.T) {
	f := newFixture()

	result := f.service.Print(context.Background(), sale(), acme, PrintOptions{
		Method: transport.MethodWireless,
		Paper:  "110mm",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, ErrUnsupportedPaper.Error())
	assert.Zero(t, f.wireless.calls)
}

func TestPrintRecordsCancelledRequest(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.service.Print(ctx, sale(), acme, PrintOptions{Method: transport.MethodWireless})

	f.onlyJob(t)
}

func TestRender(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name        string
		opts        RenderOptions
		contentType string
		contains    string
	}{
		{name: "escpos", opts: RenderOptions{Format: FormatESCPOS, AutoCut: true}, contentType: "application/octet-stream", contains: "2x Widget"},
		{name: "markup 80mm", opts: RenderOptions{Format: FormatMarkup, Paper: receipt.PaperWidth80}, contentType: "text/html; charset=utf-8", contains: "width: 300px"},
		{name: "text", opts: RenderOptions{Format: FormatText}, contentType: "text/plain; charset=utf-8", contains: "*TOTAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := f.service.Render(sale(), acme, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, rendered.ContentType)
			assert.Contains(t, string(rendered.Body), tt.contains)
		})
	}

	escposOut, err := f.service.Render(sale(), acme, RenderOptions{Format: FormatESCPOS, AutoCut: true})
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(escposOut.Body, escpos.Commands.CutFull))

	_, err = f.service.Render(sale(), acme, RenderOptions{Format: "pdf"})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = f.service.Render(sale(), acme, RenderOptions{Format: FormatText, Paper: "57mm"})
	assert.True(t, errors.Is(err, ErrUnsupportedPaper))
}
