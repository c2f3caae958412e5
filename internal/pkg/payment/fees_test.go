package payment

import "testing"

func TestCalculateTransferFee(t *testing.T) {
	tests := []struct {
		name         string
		base         int64
		shopFee      float64
		processorFee float64
		wantTransfer int64
		wantFee      int64
		wantPercent  float64
	}{
		{name: "standard order", base: 10000, shopFee: 5, processorFee: 3.6, wantTransfer: 9140, wantFee: 860, wantPercent: 8.6},
		{name: "fractional rounds up", base: 100, shopFee: 0, processorFee: 0.05, wantTransfer: 100, wantFee: 0, wantPercent: 0.05},
		{name: "exact half rounds up", base: 1000, shopFee: 0, processorFee: 0.05, wantTransfer: 1000, wantFee: 0, wantPercent: 0.05},
		{name: "fractional rounds down", base: 10000, shopFee: 0, processorFee: 0.036, wantTransfer: 9996, wantFee: 4, wantPercent: 0.036},
		{name: "zero fees", base: 500, shopFee: 0, processorFee: 0, wantTransfer: 500, wantFee: 0, wantPercent: 0},
		{name: "full fee", base: 500, shopFee: 100, processorFee: 0, wantTransfer: 0, wantFee: 500, wantPercent: 100},
		{name: "small amount", base: 1, shopFee: 5, processorFee: 3.6, wantTransfer: 1, wantFee: 0, wantPercent: 8.6},
	}

	for _, tt := range tests {
		got := CalculateTransferFee(tt.base, tt.shopFee, tt.processorFee)
		if got.TransferAmount != tt.wantTransfer {
			t.Fatalf("%s: TransferAmount = %d, want %d", tt.name, got.TransferAmount, tt.wantTransfer)
		}
		if got.PlatformFee != tt.wantFee {
			t.Fatalf("%s: PlatformFee = %d, want %d", tt.name, got.PlatformFee, tt.wantFee)
		}
		if got.PlatformFeePercent != tt.wantPercent {
			t.Fatalf("%s: PlatformFeePercent = %v, want %v", tt.name, got.PlatformFeePercent, tt.wantPercent)
		}
	}
}

func TestCalculateTransferFeeSumsToBase(t *testing.T) {
	bases := []int64{1, 99, 100, 999, 1000, 12345, 10000000}
	fees := []float64{0, 0.05, 3.6, 5, 8.6, 15, 50}

	for _, base := range bases {
		for _, fee := range fees {
			got := CalculateTransferFee(base, fee, 3.6)
			if got.TransferAmount+got.PlatformFee != base {
				t.Fatalf("calc(%d, %v, 3.6): %d + %d does not sum to base", base, fee, got.TransferAmount, got.PlatformFee)
			}
		}
	}
}
