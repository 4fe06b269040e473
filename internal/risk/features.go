package risk

// shockIndexFallback is used when systolic BP is zero or negative.
const shockIndexFallback = 0.67

// Features are the derived inputs to the classifier, alongside the raw
// vitals.
type Features struct {
	ShockIndex float64
	MAP        float64
	HRDiff     float64
}

// DeriveFeatures computes shock index and mean arterial pressure. HRDiff
// is always zero: single-sample scoring has no historical delta, which
// is a known limitation of this feature set.
func DeriveFeatures(heartRate, systolicBP, diastolicBP float64) Features {
	shockIndex := shockIndexFallback
	if systolicBP > 0 {
		shockIndex = heartRate / systolicBP
	}

	return Features{
		ShockIndex: shockIndex,
		MAP:        (systolicBP + 2*diastolicBP) / 3,
		HRDiff:     0,
	}
}

// ClassifierVector builds the ordered feature vector the classifier
// contract expects: ICULOS, HR, O2Sat, Temp, SBP, MAP, DBP, Resp,
// ShockIndex, HR_diff.
func ClassifierVector(iculos, hr, spo2, temp, sbp, dbp, resp float64, f Features) []float64 {
	return []float64{iculos, hr, spo2, temp, sbp, f.MAP, dbp, resp, f.ShockIndex, f.HRDiff}
}
