package domain

import "testing"

func TestOrderStatusTransitionTable(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderCompleted, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderPending, false},
		{OrderPending, 2, false}, // reserved codes accept nothing yet
		{OrderPending, 3, false},
		{OrderCompleted, OrderPending, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%d -> %d) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderPending.Terminal() {
		t.Error("pending reported terminal")
	}
	if !OrderCompleted.Terminal() {
		t.Error("completed not reported terminal")
	}
	if !OrderCancelled.Terminal() {
		t.Error("cancelled not reported terminal")
	}
}
