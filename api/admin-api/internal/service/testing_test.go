package internal_service

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/connectors"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-service"),
		commons.Level("error"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func newTestPostgres(t *testing.T) connectors.PostgresConnector {
	t.Helper()
	// One named in-memory database per test, shared across pool connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&internal_entity.Organization{},
		&internal_entity.User{},
		&internal_entity.ApiToken{},
		&internal_entity.Extension{},
		&internal_entity.RingGroup{},
		&internal_entity.RingGroupMember{},
		&internal_entity.Recording{},
		&internal_entity.IvrMenu{},
		&internal_entity.IvrMenuOption{},
		&internal_entity.BusinessHoursSet{},
		&internal_entity.BusinessHoursRule{},
		&internal_entity.PhoneNumber{},
		&internal_entity.OutboundWhitelistEntry{},
		&internal_entity.SentryBlacklistEntry{},
		&internal_entity.Setting{},
		&internal_entity.CallLog{},
		&internal_entity.CallSession{},
		&internal_entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return connectors.NewPostgresConnectorWithDB(db, newTestLogger(t))
}

func testAdmin(organizationId uint64) types.SimplePrinciple {
	return &types.UserScope{
		UserId:         1,
		OrganizationId: organizationId,
		Email:          "admin@example.com",
		Role:           types.RoleAdmin,
	}
}

func seedOrganization(t *testing.T, postgres connectors.PostgresConnector, id uint64, domain string) {
	t.Helper()
	org := &internal_entity.Organization{Name: fmt.Sprintf("org-%d", id), CloudonixDomain: domain}
	org.Id = id
	if err := postgres.DB(context.Background()).Create(org).Error; err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
}

func seedExtension(t *testing.T, postgres connectors.PostgresConnector, organizationId uint64, number string) *internal_entity.Extension {
	t.Helper()
	extension := &internal_entity.Extension{
		Number:      number,
		DisplayName: "ext " + number,
		SipPassword: "secret",
	}
	extension.OrganizationId = organizationId
	if err := postgres.DB(context.Background()).Create(extension).Error; err != nil {
		t.Fatalf("failed to seed extension: %v", err)
	}
	return extension
}

// fakeSubscriberService stands in for the Cloudonix integration.
type fakeSubscriberService struct {
	provisioned   []string
	deprovisioned []string
	synced        []string
	applications  []string
	failProvision bool
}

func (f *fakeSubscriberService) ProvisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) (string, error) {
	if f.failProvision {
		return "", fmt.Errorf("cloudonix unavailable")
	}
	f.provisioned = append(f.provisioned, extension.Number)
	return fmt.Sprintf("sub-%s", extension.Number), nil
}

func (f *fakeSubscriberService) SyncExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error {
	f.synced = append(f.synced, extension.Number)
	if extension.CloudonixSubscriberId == "" {
		extension.CloudonixSubscriberId = fmt.Sprintf("sub-%s", extension.Number)
	}
	return nil
}

func (f *fakeSubscriberService) DeprovisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error {
	f.deprovisioned = append(f.deprovisioned, extension.Number)
	return nil
}

func (f *fakeSubscriberService) SyncPhoneNumber(ctx context.Context, domain string, number *internal_entity.PhoneNumber) (string, error) {
	f.applications = append(f.applications, number.Number)
	return fmt.Sprintf("app-%s", number.Number), nil
}

func (f *fakeSubscriberService) DefaultDomain() string { return "pbx.example.cloudonix.io" }
