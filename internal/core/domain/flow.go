package domain

// FlowStage is a step of the authorization-code connect flow.
//
// idle -> auth_requested -> callback_received -> token_exchanged -> profile_fetched -> connected
//
// failed is terminal and reachable from every non-terminal stage.
type FlowStage string

const (
	FlowStageIdle             FlowStage = "idle"
	FlowStageAuthRequested    FlowStage = "auth_requested"
	FlowStageCallbackReceived FlowStage = "callback_received"
	FlowStageTokenExchanged   FlowStage = "token_exchanged"
	FlowStageProfileFetched   FlowStage = "profile_fetched"
	FlowStageConnected        FlowStage = "connected"
	FlowStageFailed           FlowStage = "failed"
)

var flowTransitions = map[FlowStage]FlowStage{
	FlowStageIdle:             FlowStageAuthRequested,
	FlowStageAuthRequested:    FlowStageCallbackReceived,
	FlowStageCallbackReceived: FlowStageTokenExchanged,
	FlowStageTokenExchanged:   FlowStageProfileFetched,
	FlowStageProfileFetched:   FlowStageConnected,
}

// IsTerminal returns true for connected and failed.
func (s FlowStage) IsTerminal() bool {
	return s == FlowStageConnected || s == FlowStageFailed
}

// CanTransition reports whether moving from s to next is allowed.
func (s FlowStage) CanTransition(next FlowStage) bool {
	if s.IsTerminal() {
		return false
	}
	if next == FlowStageFailed {
		return true
	}
	return flowTransitions[s] == next
}
