package domain

import "testing"

func TestFlowStage_HappyPath(t *testing.T) {
	path := []FlowStage{
		FlowStageIdle,
		FlowStageAuthRequested,
		FlowStageCallbackReceived,
		FlowStageTokenExchanged,
		FlowStageProfileFetched,
		FlowStageConnected,
	}

	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransition(path[i+1]) {
			t.Errorf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestFlowStage_FailedFromAnyNonTerminal(t *testing.T) {
	for _, s := range []FlowStage{FlowStageIdle, FlowStageAuthRequested, FlowStageCallbackReceived, FlowStageTokenExchanged, FlowStageProfileFetched} {
		if !s.CanTransition(FlowStageFailed) {
			t.Errorf("expected %s -> failed to be allowed", s)
		}
	}
}

func TestFlowStage_TerminalStagesAreFinal(t *testing.T) {
	for _, s := range []FlowStage{FlowStageConnected, FlowStageFailed} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
		if s.CanTransition(FlowStageFailed) || s.CanTransition(FlowStageIdle) {
			t.Errorf("expected no transitions out of %s", s)
		}
	}
}

func TestFlowStage_NoSkipping(t *testing.T) {
	if FlowStageCallbackReceived.CanTransition(FlowStageConnected) {
		t.Error("callback_received must not jump straight to connected")
	}
	if FlowStageIdle.CanTransition(FlowStageTokenExchanged) {
		t.Error("idle must not jump to token_exchanged")
	}
}
