package internal_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func newHoursSet(rules ...*internal_entity.BusinessHoursRule) *internal_entity.BusinessHoursSet {
	return &internal_entity.BusinessHoursSet{
		Name:     "office",
		Timezone: "UTC",
		Rules:    rules,
	}
}

func TestBusinessHoursIsOpenAt(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	// Monday 09:00-17:00 UTC.
	set := newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"})
	require.NoError(t, svc.Create(context.Background(), testAdmin(10), set))

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"monday morning", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), true},
		{"open boundary inclusive", time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC), true},
		{"close boundary exclusive", time.Date(2026, 8, 24, 17, 0, 0, 0, time.UTC), false},
		{"before open", time.Date(2026, 8, 24, 8, 59, 0, 0, time.UTC), false},
		{"tuesday", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			open, err := svc.IsOpenAt(set, tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.open, open)
		})
	}
}

func TestBusinessHoursOvernightWindow(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	// Friday 22:00 through Saturday 02:00.
	set := newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 5, OpenTime: "22:00", CloseTime: "02:00"})
	require.NoError(t, svc.Create(context.Background(), testAdmin(10), set))

	friday := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)
	saturdayEarly := time.Date(2026, 8, 29, 1, 30, 0, 0, time.UTC)
	saturdayLate := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)

	open, err := svc.IsOpenAt(set, friday)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = svc.IsOpenAt(set, saturdayEarly)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = svc.IsOpenAt(set, saturdayLate)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestBusinessHoursTimezoneConversion(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	set := newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"})
	set.Timezone = "America/New_York"
	require.NoError(t, svc.Create(context.Background(), testAdmin(10), set))

	// Monday 2026-08-24 13:00 UTC is 09:00 in New York (EDT, UTC-4).
	open, err := svc.IsOpenAt(set, time.Date(2026, 8, 24, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, open)

	// 12:59 UTC is still 08:59 local.
	open, err = svc.IsOpenAt(set, time.Date(2026, 8, 24, 12, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestBusinessHoursValidation(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	tests := []struct {
		name string
		set  *internal_entity.BusinessHoursSet
	}{
		{"missing name", &internal_entity.BusinessHoursSet{Timezone: "UTC"}},
		{"unknown timezone", func() *internal_entity.BusinessHoursSet {
			s := newHoursSet()
			s.Timezone = "Mars/Olympus"
			return s
		}()},
		{"bad weekday", newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 7, OpenTime: "09:00", CloseTime: "17:00"})},
		{"bad clock", newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "25:00", CloseTime: "17:00"})},
		{"clock with trailing text", newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "12:30xyz", CloseTime: "17:00"})},
		{"clock missing padding", newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "9:00", CloseTime: "17:00"})},
		{"empty window", newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "09:00", CloseTime: "09:00"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), auth, tc.set)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBusinessHoursUpdateReplacesRules(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	set := newHoursSet(
		&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"},
		&internal_entity.BusinessHoursRule{Weekday: 2, OpenTime: "09:00", CloseTime: "17:00"},
	)
	require.NoError(t, svc.Create(context.Background(), auth, set))

	update := newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 3, OpenTime: "10:00", CloseTime: "16:00"})
	update.Id = set.Id
	require.NoError(t, svc.Update(context.Background(), auth, update))

	got, err := svc.Get(context.Background(), auth, set.Id)
	require.NoError(t, err)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, 3, got.Rules[0].Weekday)
	assert.Equal(t, "10:00", got.Rules[0].OpenTime)
}

func TestBusinessHoursDeleteBlockedByPhoneNumber(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewBusinessHoursService(newTestLogger(t), postgres)

	set := newHoursSet(&internal_entity.BusinessHoursRule{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"})
	require.NoError(t, svc.Create(context.Background(), auth, set))

	number := &internal_entity.PhoneNumber{
		Number:             "+15551230000",
		BusinessHoursSetId: set.Id,
		Route:              internal_entity.Destination{Type: internal_entity.DestinationHangup},
	}
	number.OrganizationId = 10
	require.NoError(t, postgres.DB(context.Background()).Create(number).Error)

	err := svc.Delete(context.Background(), auth, set.Id)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Detach the number and the delete takes the rules along.
	require.NoError(t, postgres.DB(context.Background()).
		Model(number).Update("business_hours_set_id", 0).Error)
	require.NoError(t, svc.Delete(context.Background(), auth, set.Id))

	var rules int64
	require.NoError(t, postgres.DB(context.Background()).
		Model(&internal_entity.BusinessHoursRule{}).Count(&rules).Error)
	assert.Zero(t, rules)
}
