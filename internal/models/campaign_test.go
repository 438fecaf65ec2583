package models

import "testing"

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{CampaignStatusPending, CampaignStatusActive, true},
		{CampaignStatusPending, CampaignStatusAccepted, true},
		{CampaignStatusActive, CampaignStatusAccepted, true},
		{CampaignStatusAccepted, CampaignStatusCompleted, true},

		// Cancellation paths
		{CampaignStatusPending, CampaignStatusCancelled, true},
		{CampaignStatusActive, CampaignStatusCancelled, true},
		{CampaignStatusAccepted, CampaignStatusCancelled, true},

		// Invalid transitions
		{CampaignStatusPending, CampaignStatusCompleted, false},
		{CampaignStatusActive, CampaignStatusCompleted, false},
		{CampaignStatusCompleted, CampaignStatusCancelled, false},
		{CampaignStatusCompleted, CampaignStatusAccepted, false},
		{CampaignStatusCancelled, CampaignStatusPending, false},
		{CampaignStatusCancelled, CampaignStatusCancelled, false},
		{CampaignStatusAccepted, CampaignStatusPending, false},
		{"nonexistent", CampaignStatusAccepted, false},
		{CampaignStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllCampaignStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		CampaignStatusPending, CampaignStatusActive, CampaignStatusAccepted,
		CampaignStatusCompleted, CampaignStatusCancelled,
	}

	for _, status := range allStatuses {
		if _, ok := ValidCampaignTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidCampaignTransitions map", status)
		}
	}
}

func TestTerminalCampaignStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{CampaignStatusCompleted, CampaignStatusCancelled}
	for _, status := range terminal {
		transitions := ValidCampaignTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestEveryStatusIsReachable(t *testing.T) {
	reachable := map[string]bool{CampaignStatusPending: true} // initial
	for _, targets := range ValidCampaignTransitions {
		for _, to := range targets {
			reachable[to] = true
		}
	}

	for status := range ValidCampaignTransitions {
		if !reachable[status] {
			t.Errorf("status %q is not reachable from any other status", status)
		}
	}
}
