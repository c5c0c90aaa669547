package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "excel serial", input: "40886.53472222222", want: want},
		{name: "iso with space", input: "2011-12-09 12:50:00", want: want},
		{name: "iso with T", input: "2011-12-09T12:50:00", want: want},
		{name: "rfc3339", input: "2011-12-09T12:50:00Z", want: want},
		{name: "us long year", input: "12/9/2011 12:50", want: want},
		{name: "us short year", input: "12/9/11 12:50", want: want},
		{name: "date only", input: "2011-12-09", want: time.Date(2011, 12, 9, 0, 0, 0, 0, time.UTC)},
		{name: "padded", input: "  2011-12-09 12:50:00 ", want: want},
		{name: "empty", input: "", wantErr: true},
		{name: "negative serial", input: "-3", wantErr: true},
		{name: "text", input: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "6", want: 6},
		{input: "-12", want: -12},
		{input: "6.0", want: 6},
		{input: " 24 ", want: 24},
		{input: "2.5", wantErr: true},
		{input: "a dozen", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseQuantity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice(t *testing.T) {
	price, err := parsePrice("0.00")
	require.NoError(t, err)
	assert.True(t, price.IsZero())

	price, err = parsePrice("4.95")
	require.NoError(t, err)
	assert.Equal(t, "4.95", price.String())

	_, err = parsePrice("-11062.06")
	assert.Error(t, err)
}
