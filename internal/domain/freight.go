package domain

// VolumetricFactor is the IATA air-freight conversion: 1 CBM is billed as
// 167 kg when the volumetric weight exceeds the scale weight.
const VolumetricFactor = 167.0

// ChargeableWeightKg returns the billable air-freight weight for a shipment
// of the given gross weight (kg) and volume (CBM). Inputs are expected to be
// non-negative; validation happens at the service boundary.
func ChargeableWeightKg(grossWeight, cbm float64) float64 {
	volumetric := cbm * VolumetricFactor
	if volumetric > grossWeight {
		return volumetric
	}
	return grossWeight
}
