package telephony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		country string
		want    string
		wantErr bool
	}{
		{name: "already e164", raw: "+14155550100", want: "+14155550100"},
		{name: "e164 with spaces", raw: " +1 415 555 0100 ", want: "+14155550100"},
		{name: "indian national prefix", raw: "919876543210", want: "+919876543210"},
		{name: "indian with punctuation", raw: "91-987-654-3210", want: "+919876543210"},
		{name: "ten digit nanp", raw: "4155550100", want: "+14155550100"},
		{name: "ten digit nanp with formatting", raw: "(415) 555-0100", want: "+14155550100"},
		{name: "ambiguous with default country code", raw: "44207925149", country: "+", want: "+44207925149"},
		{name: "ambiguous without default country code fails closed", raw: "44207925149", wantErr: true},
		{name: "empty input fails", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeE164(tt.raw, tt.country)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
