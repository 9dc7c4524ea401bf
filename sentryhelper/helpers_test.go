package sentryhelper

import (
	"context"
	"errors"
	"testing"

	sentry "github.com/getsentry/sentry-go"
)

func TestHubFromContext(t *testing.T) {
	t.Run("falls back to current hub", func(t *testing.T) {
		if got := HubFromContext(context.Background()); got != sentry.CurrentHub() {
			t.Errorf("HubFromContext() = %p, want current hub %p", got, sentry.CurrentHub())
		}
	})

	t.Run("returns request hub", func(t *testing.T) {
		hub := sentry.CurrentHub().Clone()
		ctx := sentry.SetHubOnContext(context.Background(), hub)
		if got := HubFromContext(ctx); got != hub {
			t.Errorf("HubFromContext() = %p, want %p", got, hub)
		}
	})
}

func TestCaptureExceptionWithoutClient(t *testing.T) {
	// no client bound: capture must be a no-op rather than a panic
	hub := sentry.NewHub(nil, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)
	if id := CaptureException(ctx, errors.New("boom")); id != nil {
		t.Errorf("CaptureException() = %v, want nil without a client", *id)
	}
	AddBreadcrumb(ctx, &sentry.Breadcrumb{Message: "still fine"})
}

func TestStartSpanOrphaned(t *testing.T) {
	span := StartSpan(context.Background(), "test.op")
	defer span.Finish()
	if span.Op != "test.op" {
		t.Errorf("span.Op = %q, want %q", span.Op, "test.op")
	}
}
