// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/regulaai/pkg/types"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantScore   int
		wantReasons int
	}{
		{
			name:      "benign text scores zero",
			text:      "The parties agree to cooperate in good faith.",
			wantScore: 0,
		},
		{
			name:        "termination clause",
			text:        "Either party may effect Termination with notice.",
			wantScore:   20,
			wantReasons: 1,
		},
		{
			name:        "liability and indemnification stack",
			text:        "Liability is limited. Each party shall indemnify the other.",
			wantScore:   45,
			wantReasons: 2,
		},
		{
			name:        "personal data without gdpr mention",
			text:        "The vendor processes personal data of end users.",
			wantScore:   15,
			wantReasons: 1,
		},
		{
			name:      "gdpr reference suppresses the data finding",
			text:      "The vendor processes personal data in accordance with GDPR.",
			wantScore: 0,
		},
		{
			name:        "unlimited obligation",
			text:        "The licensee grants an unlimited, indefinite right of use.",
			wantScore:   20,
			wantReasons: 1,
		},
		{
			name:        "everything fires, score capped",
			text:        "Termination. Unlimited liability. Indemnification. Privacy of personal data.",
			wantScore:   100,
			wantReasons: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Score(tt.text)
			assert.Equal(t, tt.wantScore, rep.Score)
			assert.Len(t, rep.Reasons, tt.wantReasons)
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, types.RiskLow, Report{Score: 0}.Level())
	assert.Equal(t, types.RiskLow, Report{Score: 39}.Level())
	assert.Equal(t, types.RiskMedium, Report{Score: 40}.Level())
	assert.Equal(t, types.RiskMedium, Report{Score: 59}.Level())
	assert.Equal(t, types.RiskHigh, Report{Score: 60}.Level())
}

func TestHighRisk(t *testing.T) {
	assert.False(t, Report{Score: 50}.HighRisk())
	assert.True(t, Report{Score: 51}.HighRisk())
}
