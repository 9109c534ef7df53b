package htlc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/htlc/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnixTimeUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"seconds": {
			raw:  "1560000000",
			want: 1560000000,
		},
		"epoch": {
			raw:  "0",
			want: 0,
		},
		"RFC 3339 in UTC": {
			raw:  `"2019-06-08T13:20:00Z"`,
			want: 1560000000,
		},
		"RFC 3339 with offset and nanoseconds": {
			raw:  `"2019-06-08T15:20:00.999+02:00"`,
			want: 1560000000,
		},
		"negative seconds": {
			raw:     "-60",
			wantErr: errors.ErrInput,
		},
		"before epoch": {
			raw:     `"1969-12-31T23:59:00Z"`,
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     `"tomorrow"`,
			wantErr: errors.ErrInput,
		},
		"boolean": {
			raw:     `true`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			assert.True(t, tc.wantErr.Is(err), "%+v", err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	start := UnixTime(1560000000)
	assert.Equal(t, UnixTime(1560003600), start.Add(time.Hour))
	assert.Equal(t, UnixTime(1560000001), start.Add(1999*time.Millisecond))
	assert.Equal(t, start.Time().Add(48*time.Hour).Unix(), int64(start.Add(48*time.Hour)))
}

func TestUnixTimeValidate(t *testing.T) {
	assert.True(t, errors.ErrState.Is(UnixTime(-1).Validate()))
	assert.NoError(t, UnixTime(0).Validate())
	assert.NoError(t, UnixTime(1560000000).Validate())
}

func TestUnixTimeString(t *testing.T) {
	assert.Equal(t, "2019-06-08T13:20:00Z", UnixTime(1560000000).String())
}
