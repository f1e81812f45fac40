package secrets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func TestGenerateCodeDeterministicWithinWindow(t *testing.T) {
	base := time.Date(2026, 3, 4, 12, 0, 1, 0, time.UTC)

	first, err := GenerateCode(testSecret, base)
	require.NoError(t, err)
	assert.Len(t, first, 6)

	// 20 seconds later is still inside the same 30 second window.
	second, err := GenerateCode(testSecret, base.Add(20*time.Second))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateCodeDiffersAcrossWindows(t *testing.T) {
	base := time.Date(2026, 3, 4, 12, 0, 1, 0, time.UTC)

	first, err := GenerateCode(testSecret, base)
	require.NoError(t, err)

	next, err := GenerateCode(testSecret, base.Add(30*time.Second))
	require.NoError(t, err)

	// Collision across adjacent windows is possible in principle but not
	// for this fixed secret and instant.
	assert.NotEqual(t, first, next)
}

func TestGenerateCodeMalformedSecret(t *testing.T) {
	_, err := GenerateCode("not a secret!", time.Now())
	var invalid *InvalidSecretError
	require.ErrorAs(t, err, &invalid)
}

func TestNormalizeSecret(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "clean", raw: "JBSWY3DPEHPK3PXP", want: "JBSWY3DPEHPK3PXP"},
		{name: "surrounding whitespace", raw: "  JBSWY3DPEHPK3PXP\n", want: "JBSWY3DPEHPK3PXP"},
		{name: "internal grouping spaces", raw: "JBSW Y3DP EHPK 3PXP", want: "JBSWY3DPEHPK3PXP"},
		{name: "lowercase from page", raw: "jbswy3dpehpk3pxp", want: "JBSWY3DPEHPK3PXP"},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "not base32", raw: "hello-world-0189", wantErr: true},
		{name: "too short", raw: "JBSWY3DP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSecret(tt.raw)
			if tt.wantErr {
				var invalid *InvalidSecretError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
