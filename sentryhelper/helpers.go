// Package sentryhelper provides utilities for Sentry hub and span management.
// Every HTTP request gets its own hub from the sentrygin middleware; these
// helpers find that hub so breadcrumbs and captured errors stay with the request.
package sentryhelper

import (
	"context"

	sentry "github.com/getsentry/sentry-go"
)

// HubFromContext retrieves the request hub from context.
// Falls back to CurrentHub when the call did not come through the HTTP layer.
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx == nil {
		return sentry.CurrentHub()
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// AddBreadcrumb adds a breadcrumb to the hub in context.
func AddBreadcrumb(ctx context.Context, breadcrumb *sentry.Breadcrumb) {
	hub := HubFromContext(ctx)
	hub.AddBreadcrumb(breadcrumb, nil)
}

// CaptureException captures an exception on the hub in context.
func CaptureException(ctx context.Context, err error) *sentry.EventID {
	hub := HubFromContext(ctx)
	return hub.CaptureException(err)
}

// StartSpan starts a child span attached to the transaction in context.
// Without a transaction the span is orphaned, which is fine for tests and CLIs.
func StartSpan(ctx context.Context, operation string) *sentry.Span {
	if ctx == nil {
		ctx = context.Background()
	}
	return sentry.StartSpan(ctx, operation)
}
