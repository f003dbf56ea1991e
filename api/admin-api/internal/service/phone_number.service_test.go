package internal_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func TestPhoneNumberCreateSyncsApplication(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	extension := seedExtension(t, postgres, 10, "100")
	subscriber := &fakeSubscriberService{}
	svc := NewPhoneNumberService(newTestLogger(t), postgres, subscriber)

	number := &internal_entity.PhoneNumber{
		Number: "+1 (555) 123-0000",
		Label:  "main line",
		Route: internal_entity.Destination{
			Type:     internal_entity.DestinationExtension,
			TargetId: extension.Id,
		},
	}
	require.NoError(t, svc.Create(context.Background(), auth, number))
	assert.Equal(t, "+15551230000", number.Number)
	assert.Equal(t, "app-+15551230000", number.CloudonixApplicationId)
	assert.Equal(t, []string{"+15551230000"}, subscriber.applications)
}

func TestPhoneNumberGloballyUnique(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	seedOrganization(t, postgres, 20, "")
	svc := NewPhoneNumberService(newTestLogger(t), postgres, &fakeSubscriberService{})

	require.NoError(t, svc.Create(context.Background(), testAdmin(10), &internal_entity.PhoneNumber{
		Number: "+15551230000",
		Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
	}))

	// A DID exists once on the platform, so uniqueness crosses tenants.
	err := svc.Create(context.Background(), testAdmin(20), &internal_entity.PhoneNumber{
		Number: "+15551230000",
		Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
	})
	assert.ErrorIs(t, err, ErrNumberTaken)
}

func TestPhoneNumberValidation(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewPhoneNumberService(newTestLogger(t), postgres, &fakeSubscriberService{})

	tests := []struct {
		name   string
		number internal_entity.PhoneNumber
	}{
		{"not e164", internal_entity.PhoneNumber{
			Number: "5551230000",
			Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
		}},
		{"dangling route", internal_entity.PhoneNumber{
			Number: "+15551230000",
			Route:  internal_entity.Destination{Type: internal_entity.DestinationIvrMenu, TargetId: 999},
		}},
		{"dangling business hours", internal_entity.PhoneNumber{
			Number:             "+15551230000",
			Route:              internal_entity.Destination{Type: internal_entity.DestinationHangup},
			BusinessHoursSetId: 999,
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := tc.number
			err := svc.Create(context.Background(), auth, &number)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPhoneNumberDeleteDeactivatesApplication(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewPhoneNumberService(newTestLogger(t), postgres, subscriber)

	number := &internal_entity.PhoneNumber{
		Number: "+15551230000",
		Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
	}
	require.NoError(t, svc.Create(context.Background(), auth, number))
	require.NoError(t, svc.Delete(context.Background(), auth, number.Id))

	_, err := svc.Get(context.Background(), auth, number.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	// Create and delete each push the voice application once.
	assert.Equal(t, []string{"+15551230000", "+15551230000"}, subscriber.applications)
}

func TestPhoneNumberUpdateKeepsApplicationId(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewPhoneNumberService(newTestLogger(t), postgres, subscriber)

	number := &internal_entity.PhoneNumber{
		Number: "+15551230000",
		Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
	}
	require.NoError(t, svc.Create(context.Background(), auth, number))

	update := &internal_entity.PhoneNumber{
		Number: "+15551230000",
		Label:  "renamed",
		Route:  internal_entity.Destination{Type: internal_entity.DestinationHangup},
	}
	update.Id = number.Id
	require.NoError(t, svc.Update(context.Background(), auth, update))

	got, err := svc.Get(context.Background(), auth, number.Id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Label)
	assert.Equal(t, number.CloudonixApplicationId, got.CloudonixApplicationId)
}
