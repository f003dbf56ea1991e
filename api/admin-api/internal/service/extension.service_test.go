package internal_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
)

func TestExtensionCreateProvisionsSubscriber(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	extension := &internal_entity.Extension{Number: "100", DisplayName: "Front Desk"}
	require.NoError(t, svc.Create(context.Background(), auth, extension))

	assert.Equal(t, []string{"100"}, subscriber.provisioned)
	assert.Equal(t, "sub-100", extension.CloudonixSubscriberId)
	assert.NotEmpty(t, extension.SipPassword)

	got, err := svc.Get(context.Background(), auth, extension.Id)
	require.NoError(t, err)
	assert.Equal(t, "sub-100", got.CloudonixSubscriberId)
}

func TestExtensionCreateRollsBackOnProvisionFailure(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{failProvision: true}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	extension := &internal_entity.Extension{Number: "100", DisplayName: "Front Desk"}
	require.Error(t, svc.Create(context.Background(), auth, extension))

	var count int64
	require.NoError(t, postgres.DB(context.Background()).
		Model(&internal_entity.Extension{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExtensionNumberUniquePerOrganization(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	seedOrganization(t, postgres, 20, "")
	svc := NewExtensionService(newTestLogger(t), postgres, &fakeSubscriberService{})

	require.NoError(t, svc.Create(context.Background(), testAdmin(10),
		&internal_entity.Extension{Number: "100", DisplayName: "a"}))

	err := svc.Create(context.Background(), testAdmin(10),
		&internal_entity.Extension{Number: "100", DisplayName: "b"})
	assert.ErrorIs(t, err, ErrNumberTaken)

	// Same number in another organization is fine.
	require.NoError(t, svc.Create(context.Background(), testAdmin(20),
		&internal_entity.Extension{Number: "100", DisplayName: "c"}))
}

func TestExtensionValidation(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewExtensionService(newTestLogger(t), postgres, &fakeSubscriberService{})

	tests := []struct {
		name      string
		extension internal_entity.Extension
	}{
		{"single digit", internal_entity.Extension{Number: "1", DisplayName: "x"}},
		{"too long", internal_entity.Extension{Number: "1234567", DisplayName: "x"}},
		{"non numeric", internal_entity.Extension{Number: "10a", DisplayName: "x"}},
		{"missing display name", internal_entity.Extension{Number: "100"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			extension := tc.extension
			err := svc.Create(context.Background(), auth, &extension)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExtensionUpdateKeepsCredential(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	extension := &internal_entity.Extension{Number: "100", DisplayName: "Front Desk"}
	require.NoError(t, svc.Create(context.Background(), auth, extension))
	password := extension.SipPassword

	update := &internal_entity.Extension{Number: "100", DisplayName: "Reception"}
	update.Id = extension.Id
	require.NoError(t, svc.Update(context.Background(), auth, update))

	got, err := svc.Get(context.Background(), auth, extension.Id)
	require.NoError(t, err)
	assert.Equal(t, "Reception", got.DisplayName)
	assert.Equal(t, password, got.SipPassword)
	assert.Equal(t, "sub-100", got.CloudonixSubscriberId)
	assert.Equal(t, []string{"100"}, subscriber.synced)
}

func TestExtensionRegenerateSipPassword(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	extension := &internal_entity.Extension{Number: "100", DisplayName: "Front Desk"}
	require.NoError(t, svc.Create(context.Background(), auth, extension))
	old := extension.SipPassword

	rotated, err := svc.RegenerateSipPassword(context.Background(), auth, extension.Id)
	require.NoError(t, err)
	assert.NotEqual(t, old, rotated.SipPassword)
	assert.NotEmpty(t, rotated.SipPassword)
	// Rotation pushes the new credential to the platform.
	assert.Equal(t, []string{"100"}, subscriber.synced)
}

func TestExtensionDeleteRemovesMembershipsAndDeprovisions(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	subscriber := &fakeSubscriberService{}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	extension := &internal_entity.Extension{Number: "100", DisplayName: "Front Desk"}
	require.NoError(t, svc.Create(context.Background(), auth, extension))

	groups := NewRingGroupService(newTestLogger(t), postgres, newTestLocker(t, 0, 0))
	group := &internal_entity.RingGroup{Name: "support"}
	require.NoError(t, groups.Create(context.Background(), auth, group))
	lockedGroups := NewRingGroupService(newTestLogger(t), postgres, newTestLocker(t, group.Id, 1))
	_, err := lockedGroups.ReplaceMembers(context.Background(), auth, group.Id, []uint64{extension.Id})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), auth, extension.Id))
	assert.Equal(t, []string{"100"}, subscriber.deprovisioned)

	got, err := groups.Get(context.Background(), auth, group.Id)
	require.NoError(t, err)
	assert.Empty(t, got.Members)

	_, err = svc.Get(context.Background(), auth, extension.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtensionDomainFallsBackToDefault(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "tenant.cloudonix.io")
	seedOrganization(t, postgres, 20, "")
	subscriber := &recordingSubscriberService{}
	svc := NewExtensionService(newTestLogger(t), postgres, subscriber)

	require.NoError(t, svc.Create(context.Background(), testAdmin(10),
		&internal_entity.Extension{Number: "100", DisplayName: "a"}))
	require.NoError(t, svc.Create(context.Background(), testAdmin(20),
		&internal_entity.Extension{Number: "200", DisplayName: "b"}))

	assert.Equal(t, []string{"tenant.cloudonix.io", subscriber.DefaultDomain()}, subscriber.domains)
}

// recordingSubscriberService captures the domain each call targets.
type recordingSubscriberService struct {
	fakeSubscriberService
	domains []string
}

func (r *recordingSubscriberService) ProvisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) (string, error) {
	r.domains = append(r.domains, domain)
	return r.fakeSubscriberService.ProvisionExtension(ctx, domain, extension)
}
