// internal/transport/dialog.go
package transport

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dialog opens the receipt in a browser tab and invokes the print dialog.
// Success means the dialog was invoked; whether paper came out is not observable.
type Dialog struct {
	opener SurfaceOpener
	linger time.Duration
	logger *zap.Logger
}

// NewDialog creates the print-dialog transport. The tab stays open for linger
// so the operator can finish the dialog.
func NewDialog(opener SurfaceOpener, linger time.Duration, logger *zap.Logger) *Dialog {
	return &Dialog{
		opener: opener,
		linger: linger,
		logger: logger.With(zap.String("transport", "print-dialog")),
	}
}

func (d *Dialog) Name() string { return "print-dialog" }

// Deliver loads the document and invokes print
func (d *Dialog) Deliver(ctx context.Context, document string, dest Destination) Result {
	surface, err := d.opener.Open(ctx)
	if err != nil {
		return Fail(fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err))
	}

	if err := surface.Load(ctx, document); err != nil {
		surface.Close()
		return Fail(err)
	}
	if err := surface.Print(ctx); err != nil {
		surface.Close()
		return Fail(err)
	}

	time.AfterFunc(d.linger, surface.Close)

	d.logger.Info("Print dialog invoked", zap.String("job_id", dest.JobID))
	return OK()
}
