package classifier

import "fmt"

// Band is the clinical severity band derived from a glucose reading.
type Band string

const (
	BandSevereHypo    Band = "severe_hypoglycemia"
	BandHypo          Band = "hypoglycemia"
	BandNormal        Band = "normal"
	BandModerateHyper Band = "moderate_hyperglycemia"
	BandSevereHyper   Band = "severe_hyperglycemia"
)

// Classify maps a glucose value (g/L) to its severity band.
// The five ranges partition the whole real line; the normal band is
// inclusive on both ends (1.00 and 1.26 are normal). Negative values
// fall into the severe hypoglycemia band.
func Classify(value float64) Band {
	switch {
	case value < 0.70:
		return BandSevereHypo
	case value < 1.00:
		return BandHypo
	case value <= 1.26:
		return BandNormal
	case value <= 1.40:
		return BandModerateHyper
	default:
		return BandSevereHyper
	}
}

// RenderMessage builds the patient-facing notification text for a band.
// The template set is fixed and covers every band; an unknown band is a
// programming error and panics.
func RenderMessage(band Band, value float64) string {
	switch band {
	case BandSevereHypo:
		return fmt.Sprintf("🚨 URGENT - Glucose %sg/L. Severe hypoglycemia. Contact your doctor immediately.", formatValue(value))
	case BandHypo:
		return fmt.Sprintf("⚠️ Glucose %sg/L (low). Take sugar.", formatValue(value))
	case BandNormal:
		return fmt.Sprintf("✅ Glucose %sg/L - Excellent! Keep it up.", formatValue(value))
	case BandModerateHyper:
		return fmt.Sprintf("📈 Glucose %sg/L (elevated). Watch your diet.", formatValue(value))
	case BandSevereHyper:
		return fmt.Sprintf("🚨 Glucose %sg/L (very high). Contact your doctor.", formatValue(value))
	}
	panic(fmt.Sprintf("classifier: no message template for band %q", band))
}

// formatValue trims trailing zeros so 1.20 renders as "1.2" and 1.00 as "1".
func formatValue(value float64) string {
	return fmt.Sprintf("%g", value)
}
