package finance

// DefaultVATRate is the fallback VAT percentage when configuration
// supplies none.
const DefaultVATRate = 18.0

// RemoveVAT converts a VAT-inclusive gross amount to its net component
// given a percentage rate. A rate of zero returns the gross unchanged.
// No rounding happens here; rounding is a presentation concern.
func RemoveVAT(gross, rate float64) float64 {
	gross = amount(gross)
	if rate <= 0 {
		return gross
	}
	return gross / (1 + rate/100)
}

// VATAmount returns the VAT-only component of a gross amount, so that
// RemoveVAT(g, r) + VATAmount(g, r) == g.
func VATAmount(gross, rate float64) float64 {
	gross = amount(gross)
	return gross - RemoveVAT(gross, rate)
}
