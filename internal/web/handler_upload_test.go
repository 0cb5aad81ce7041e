package web

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	tests := []struct {
		name     string
		uri      string
		wantMIME string
		wantErr  bool
	}{
		{name: "png", uri: "data:image/png;base64," + payload, wantMIME: "image/png"},
		{name: "jpeg", uri: "data:image/jpeg;base64," + payload, wantMIME: "image/jpeg"},
		{name: "jpg normalised", uri: "data:image/jpg;base64," + payload, wantMIME: "image/jpeg"},
		{name: "webp", uri: "data:image/webp;base64," + payload, wantMIME: "image/webp"},
		{name: "missing prefix", uri: payload, wantErr: true},
		{name: "non-image", uri: "data:text/plain;base64," + payload, wantErr: true},
		{name: "unsupported format", uri: "data:image/tiff;base64," + payload, wantErr: true},
		{name: "bad base64", uri: "data:image/png;base64,!!!not-base64!!!", wantErr: true},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mime, err := decodeDataURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, mime)
			assert.Equal(t, []byte("fake image bytes"), data)
		})
	}
}

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339",
			raw:  "2024-03-15T10:30:00Z",
			want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2024-03-15T10:30:00-03:00",
			want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("", -3*3600)),
		},
		{
			name: "bare datetime",
			raw:  "2024-03-15T10:30:00",
			want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "bare date",
			raw:  "2024-03-15",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "garbage", raw: "not-a-date", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDatetime(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}
