package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "plain digits", raw: "1234", want: 1234},
		{name: "surrounding whitespace", raw: "  1234\n", want: 1234},
		{name: "trailing period", raw: "1234.", want: 1234},
		{name: "zero", raw: "0", want: 0},
		{name: "leading zeros", raw: "000123", want: 123},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "prose answer", raw: "O valor é 1234", wantErr: true},
		{name: "decimal", raw: "12.5", wantErr: true},
		{name: "negative", raw: "-5", wantErr: true},
		{name: "sentinel", raw: NotFoundSentinel, wantErr: true},
		{name: "overflow", raw: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
