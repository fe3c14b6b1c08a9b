package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/delivery/model"
)

// 2026-03-14 is a Saturday.
var (
	slotDate = time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	slotNow  = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
)

func scheduledMethod() *model.DeliveryMethod {
	return &model.DeliveryMethod{
		OperationalHours: model.OperationalHours{
			"saturday": {{From: "09:00", To: "17:00"}},
		},
		AutoGenerateTimeSlots: true,
		TimeSlotIntervalValue: 2,
		TimeSlotIntervalUnit:  model.TimeSlotUnitHour,
	}
}

func windows(slots []model.TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Window
	}
	return out
}

func TestGenerateSplitsWindowIntoIntervals(t *testing.T) {
	gen := NewScheduleGenerator()

	slots, err := gen.Generate(scheduledMethod(), slotDate, slotNow, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00 - 11:00",
		"11:00 - 13:00",
		"13:00 - 15:00",
		"15:00 - 17:00",
	}, windows(slots))
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := NewScheduleGenerator()

	first, err := gen.Generate(scheduledMethod(), slotDate, slotNow, nil)
	require.NoError(t, err)
	second, err := gen.Generate(scheduledMethod(), slotDate, slotNow, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTrailingRemainderIsDropped(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.OperationalHours = model.OperationalHours{
		"saturday": {{From: "09:00", To: "12:00"}},
	}

	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)

	// A 3h window at 2h intervals yields one slot, not one and a half.
	assert.Equal(t, []string{"09:00 - 11:00"}, windows(slots))
}

func TestMinuteIntervals(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.OperationalHours = model.OperationalHours{
		"saturday": {{From: "09:00", To: "10:30"}},
	}
	m.TimeSlotIntervalValue = 45
	m.TimeSlotIntervalUnit = model.TimeSlotUnitMinute

	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00 - 09:45", "09:45 - 10:30"}, windows(slots))
}

func TestWholeWindowWhenAutoGenerateDisabled(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.AutoGenerateTimeSlots = false

	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00 - 17:00"}, windows(slots))
}

func TestNoWindowsOnRequestedWeekday(t *testing.T) {
	gen := NewScheduleGenerator()

	sunday := slotDate.AddDate(0, 0, 1)
	slots, err := gen.Generate(scheduledMethod(), sunday, slotNow, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestPastDateIsRejected(t *testing.T) {
	gen := NewScheduleGenerator()

	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	_, err := gen.Generate(scheduledMethod(), yesterday, slotNow, nil)
	require.Error(t, err)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodePastDeliveryDate, appErr.Code)
}

func TestSlotsAreChronologicalAcrossWindows(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.AutoGenerateTimeSlots = false
	m.OperationalHours = model.OperationalHours{
		"saturday": {
			{From: "14:00", To: "17:00"},
			{From: "09:00", To: "12:00"},
		},
	}

	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 - 12:00", "14:00 - 17:00"}, windows(slots))
}

func TestMinimumNoticeTrimsSameDaySlots(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.RequireMinimumNoticeForOrders = true
	m.EarliestDeliveryTime = 3

	// Requesting today at 09:30: slots starting before 12:30 are gone.
	now := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	slots, err := gen.Generate(m, slotDate, now, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"13:00 - 15:00", "15:00 - 17:00"}, windows(slots))
}

func TestMinimumNoticeDoesNotAffectFutureDates(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.RequireMinimumNoticeForOrders = true
	m.EarliestDeliveryTime = 3

	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestMaximumNoticeDropsDistantSlots(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.RestrictMaximumNoticeForOrders = true
	m.LatestDeliveryTime = 24

	// The requested Saturday is four days past the notice horizon.
	slots, err := gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// A horizon wide enough to reach part of the day keeps early slots.
	m.LatestDeliveryTime = 4*24 + 4 // now is 08:00, reaches 12:00 Saturday
	slots, err = gen.Generate(m, slotDate, slotNow, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 - 11:00", "11:00 - 13:00"}, windows(slots))
}

func TestDailyLimitHidesFullSlots(t *testing.T) {
	gen := NewScheduleGenerator()
	m := scheduledMethod()
	m.SetDailyOrderLimit = true
	m.DailyOrderLimit = 2

	counts := map[string]int{
		"09:00 - 11:00": 2, // full
		"11:00 - 13:00": 1, // one left
	}

	slots, err := gen.Generate(m, slotDate, slotNow, counts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"11:00 - 13:00",
		"13:00 - 15:00",
		"15:00 - 17:00",
	}, windows(slots))
}

func TestInvalidIntervalConfiguration(t *testing.T) {
	gen := NewScheduleGenerator()

	m := scheduledMethod()
	m.TimeSlotIntervalValue = 0
	_, err := gen.Generate(m, slotDate, slotNow, nil)
	require.Error(t, err)

	m = scheduledMethod()
	m.TimeSlotIntervalUnit = "day"
	_, err = gen.Generate(m, slotDate, slotNow, nil)
	require.Error(t, err)
}
