package models

import "testing"

func TestCanAfford(t *testing.T) {
	tests := []struct {
		name    string
		balance int
		delta   int
		want    bool
	}{
		{"enough balance for cost", 15, -10, true},
		{"exact balance for cost", 10, -10, true},
		{"not enough balance", 5, -10, false},
		{"credit always allowed", 0, 5, true},
		{"credit allowed with negative balance", -20, 5, true},
		{"zero delta always allowed", -5, 0, true},
		{"negative balance cannot pay", -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAfford(tt.balance, tt.delta); got != tt.want {
				t.Errorf("CanAfford(%d, %d) = %v, want %v", tt.balance, tt.delta, got, tt.want)
			}
		})
	}
}
