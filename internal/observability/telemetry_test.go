package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryOptions_Sampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "AlwaysOnSampler"},
		{1, "AlwaysOnSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		desc := TelemetryOptions{SampleRatio: tt.ratio}.sampler().Description()
		assert.Contains(t, desc, "ParentBased")
		assert.Contains(t, desc, tt.want, "ratio %g", tt.ratio)
	}
}
