package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUpdateEstimationMetrics(t *testing.T) {
	before := testutil.ToFloat64(EstimationsTotal.WithLabelValues("ok"))

	UpdateEstimationMetrics(102.03, 3.84, 5)

	if got := testutil.ToFloat64(EstimationsTotal.WithLabelValues("ok")); got != before+1 {
		t.Errorf("Expected ok estimations %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(ModeTemperature); got != 102.03 {
		t.Errorf("Expected mode gauge 102.03, got %v", got)
	}
	if got := testutil.ToFloat64(Bandwidth); got != 3.84 {
		t.Errorf("Expected bandwidth gauge 3.84, got %v", got)
	}
	if got := testutil.ToFloat64(SampleSize); got != 5 {
		t.Errorf("Expected sample size gauge 5, got %v", got)
	}
}
