package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront-backend/internal/domains/delivery/model"
)

// ScheduleGenerator turns a method's operational hours into concrete,
// bookable time slots for a requested date. Generation is a pure function
// of the method, the requested date, the injected clock and the current
// booking counts, so the same inputs always yield the same slots.
type ScheduleGenerator struct{}

func NewScheduleGenerator() *ScheduleGenerator {
	return &ScheduleGenerator{}
}

// Generate returns the bookable slots for requestedDate in chronological
// order. bookingCounts maps a slot window label to the number of orders
// already booked for it on that date.
func (g *ScheduleGenerator) Generate(m *model.DeliveryMethod, requestedDate, now time.Time, bookingCounts map[string]int) ([]model.TimeSlot, error) {
	reqDay := truncateToDay(requestedDate)
	today := truncateToDay(now.In(requestedDate.Location()))
	if reqDay.Before(today) {
		return nil, model.ErrAppPastDeliveryDate
	}

	windows := m.OperationalHours[weekdayName(requestedDate.Weekday())]
	if len(windows) == 0 {
		return []model.TimeSlot{}, nil
	}

	var slots []model.TimeSlot
	for _, window := range windows {
		start, err := clockOnDate(reqDay, window.From)
		if err != nil {
			return nil, err
		}
		end, err := clockOnDate(reqDay, window.To)
		if err != nil {
			return nil, err
		}
		if !start.Before(end) {
			continue
		}

		if m.AutoGenerateTimeSlots {
			generated, err := g.partition(start, end, m)
			if err != nil {
				return nil, err
			}
			slots = append(slots, generated...)
		} else {
			slots = append(slots, newSlot(start, end))
		}
	}

	slots = g.applyNoticeWindows(m, slots, reqDay, today, now)
	slots = g.applyDailyLimit(m, slots, bookingCounts)

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartsAt.Before(slots[j].StartsAt)
	})
	return slots, nil
}

// partition cuts an operational window into equal interval slots. A
// trailing remainder shorter than the interval is dropped.
func (g *ScheduleGenerator) partition(start, end time.Time, m *model.DeliveryMethod) ([]model.TimeSlot, error) {
	step, err := slotInterval(m)
	if err != nil {
		return nil, err
	}

	var slots []model.TimeSlot
	for cursor := start; !cursor.Add(step).After(end); cursor = cursor.Add(step) {
		slots = append(slots, newSlot(cursor, cursor.Add(step)))
	}
	return slots, nil
}

func (g *ScheduleGenerator) applyNoticeWindows(m *model.DeliveryMethod, slots []model.TimeSlot, reqDay, today time.Time, now time.Time) []model.TimeSlot {
	kept := slots[:0]
	for _, slot := range slots {
		if m.RequireMinimumNoticeForOrders && reqDay.Equal(today) {
			earliest := now.Add(time.Duration(m.EarliestDeliveryTime) * time.Hour)
			if slot.StartsAt.Before(earliest) {
				continue
			}
		}
		if m.RestrictMaximumNoticeForOrders {
			latest := now.Add(time.Duration(m.LatestDeliveryTime) * time.Hour)
			if slot.StartsAt.After(latest) {
				continue
			}
		}
		kept = append(kept, slot)
	}
	return kept
}

func (g *ScheduleGenerator) applyDailyLimit(m *model.DeliveryMethod, slots []model.TimeSlot, bookingCounts map[string]int) []model.TimeSlot {
	if !m.SetDailyOrderLimit || m.DailyOrderLimit <= 0 {
		return slots
	}

	kept := slots[:0]
	for _, slot := range slots {
		if bookingCounts[slot.Window] >= m.DailyOrderLimit {
			continue
		}
		kept = append(kept, slot)
	}
	return kept
}

func slotInterval(m *model.DeliveryMethod) (time.Duration, error) {
	if m.TimeSlotIntervalValue <= 0 {
		return 0, model.NewFeeConfigError(model.ErrInvalidSlotInterval.Error())
	}
	switch m.TimeSlotIntervalUnit {
	case model.TimeSlotUnitMinute:
		return time.Duration(m.TimeSlotIntervalValue) * time.Minute, nil
	case model.TimeSlotUnitHour:
		return time.Duration(m.TimeSlotIntervalValue) * time.Hour, nil
	default:
		return 0, model.NewFeeConfigError(
			fmt.Sprintf("unsupported time_slot_interval_unit %q", m.TimeSlotIntervalUnit))
	}
}

func newSlot(start, end time.Time) model.TimeSlot {
	return model.TimeSlot{
		Window:   fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04")),
		StartsAt: start,
		EndsAt:   end,
	}
}

func clockOnDate(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, model.NewFeeConfigError(
			fmt.Sprintf("operational hours contain invalid time %q", clock))
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func weekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}
