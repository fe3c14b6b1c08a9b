package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockUsesConfiguredTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	h := NewCheckoutHandler(nil, loc)

	now := h.nowFunc()
	assert.Equal(t, loc, now.Location())

	_, offset := now.Zone()
	assert.Equal(t, 3*60*60, offset)
}

func TestClockDefaultsToUTC(t *testing.T) {
	h := NewCheckoutHandler(nil, nil)
	assert.Equal(t, time.UTC, h.nowFunc().Location())
}
