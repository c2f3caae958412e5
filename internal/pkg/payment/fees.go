package payment

import "math"

// FeeSplit is the result of splitting an order amount between the seller and
// the platform. Amounts are in minor currency units.
type FeeSplit struct {
	TransferAmount     int64
	PlatformFee        int64
	PlatformFeePercent float64
}

// CalculateTransferFee computes the seller transfer amount and the platform's
// cut for one order. The platform fee percent is the shop's fee plus the
// processor's fee; the transfer amount is rounded half-up to the nearest
// minor unit and the platform fee takes the remainder, so the two always sum
// to the base amount exactly.
func CalculateTransferFee(baseAmount int64, shopFeePercent, processorFeePercent float64) FeeSplit {
	platformFeePercent := shopFeePercent + processorFeePercent
	transferAmount := roundHalfUp(float64(baseAmount) * (100 - platformFeePercent) / 100)

	return FeeSplit{
		TransferAmount:     transferAmount,
		PlatformFee:        baseAmount - transferAmount,
		PlatformFeePercent: platformFeePercent,
	}
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
