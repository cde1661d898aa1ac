package services

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

// connectFlow tracks the stage a single callback has reached so failures
// can be reported with the step they happened at.
type connectFlow struct {
	platform domain.Platform
	stage    domain.FlowStage
	failedAt domain.FlowStage
	logger   *slog.Logger
	span     trace.Span
}

func newConnectFlow(platform domain.Platform, logger *slog.Logger, span trace.Span) *connectFlow {
	return &connectFlow{
		platform: platform,
		stage:    domain.FlowStageAuthRequested,
		logger:   logger.With("platform", string(platform)),
		span:     span,
	}
}

// advance moves to the next stage. Out-of-order transitions are ignored.
func (f *connectFlow) advance(next domain.FlowStage) {
	if !f.stage.CanTransition(next) {
		f.logger.Warn("ignored flow transition", "from", f.stage, "to", next)
		return
	}
	f.stage = next
	f.span.AddEvent(string(next))
}

// fail marks the flow failed and returns err unchanged.
func (f *connectFlow) fail(err error) error {
	if f.stage.IsTerminal() {
		return err
	}
	f.failedAt = f.stage
	f.stage = domain.FlowStageFailed
	f.span.RecordError(err)
	f.span.SetStatus(codes.Error, domain.UserMessage(err))
	f.span.SetAttributes(attribute.String("oauth.failed_at", string(f.failedAt)))
	f.logger.Warn("oauth callback failed", "failed_at", f.failedAt, "error", err)
	return err
}
