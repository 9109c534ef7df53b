package htlc_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestReadOptions(t *testing.T) {
	var opts htlc.Options
	raw := `{"conf": {"prefix": "swap"}, "aswap": [], "broken": "text"}`
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	var conf struct {
		Prefix string `json:"prefix"`
	}
	assert.Nil(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, "swap", conf.Prefix)

	var list []string
	assert.Nil(t, opts.ReadOptions("aswap", &list))
	assert.Equal(t, []string{}, list)

	// missing keys leave the destination untouched
	conf.Prefix = "keep"
	assert.Nil(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, "keep", conf.Prefix)

	var number int
	assert.True(t, opts.ReadOptions("broken", &number) != nil, "string into int")
}
