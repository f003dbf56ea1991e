// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_cloudonix

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/configs"
)

// SubscriberService keeps Cloudonix in step with local rows: one subscriber
// per extension, one voice application per DID.
type SubscriberService interface {
	// ProvisionExtension creates the subscriber and returns its platform id.
	ProvisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) (string, error)

	// SyncExtension pushes the current sip password / active state.
	SyncExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error

	// DeprovisionExtension removes the subscriber. A 404 from the platform
	// is treated as already gone.
	DeprovisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error

	// SyncPhoneNumber upserts the DID's voice application and returns its id.
	SyncPhoneNumber(ctx context.Context, domain string, number *internal_entity.PhoneNumber) (string, error)

	// DefaultDomain is the platform domain used when the organization has
	// not configured its own.
	DefaultDomain() string
}

type subscriberService struct {
	client Client
	cfg    configs.CloudonixConfig
	logger commons.Logger
}

func NewSubscriberService(cfg configs.CloudonixConfig, client Client, logger commons.Logger) SubscriberService {
	return &subscriberService{client: client, cfg: cfg, logger: logger}
}

func (s *subscriberService) DefaultDomain() string {
	return s.cfg.Domain
}

func (s *subscriberService) ProvisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) (string, error) {
	created, err := s.client.CreateSubscriber(ctx, domain, &Subscriber{
		Msisdn:      extension.Number,
		SipPassword: extension.SipPassword,
		Active:      true,
	})
	if err != nil {
		return "", fmt.Errorf("cloudonix provisioning failed for extension %s: %w", extension.Number, err)
	}
	return strconv.FormatInt(created.Id, 10), nil
}

func (s *subscriberService) SyncExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error {
	if extension.CloudonixSubscriberId == "" {
		// Never provisioned; bring it up now.
		subscriberId, err := s.ProvisionExtension(ctx, domain, extension)
		if err != nil {
			return err
		}
		extension.CloudonixSubscriberId = subscriberId
		return nil
	}

	_, err := s.client.UpdateSubscriber(ctx, domain, extension.CloudonixSubscriberId, &Subscriber{
		Msisdn:      extension.Number,
		SipPassword: extension.SipPassword,
		Active:      extension.Status.IsActive(),
	})
	if err != nil {
		return fmt.Errorf("cloudonix sync failed for extension %s: %w", extension.Number, err)
	}
	return nil
}

func (s *subscriberService) DeprovisionExtension(ctx context.Context, domain string, extension *internal_entity.Extension) error {
	if extension.CloudonixSubscriberId == "" {
		return nil
	}

	err := s.client.DeleteSubscriber(ctx, domain, extension.CloudonixSubscriberId)
	if err != nil {
		var apiErr *ApiError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			s.logger.Warnf("cloudonix subscriber %s already gone", extension.CloudonixSubscriberId)
			return nil
		}
		return fmt.Errorf("cloudonix deprovisioning failed for extension %s: %w", extension.Number, err)
	}
	return nil
}

func (s *subscriberService) SyncPhoneNumber(ctx context.Context, domain string, number *internal_entity.PhoneNumber) (string, error) {
	app, err := s.client.UpsertVoiceApplication(ctx, domain, number.CloudonixApplicationId, &VoiceApplication{
		Name:   "did-" + number.Number,
		Url:    fmt.Sprintf("/v1/hooks/cloudonix/route/%s", number.Number),
		Type:   "cloudonix",
		Active: number.Status.IsActive(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudonix application sync failed for %s: %w", number.Number, err)
	}
	return strconv.FormatInt(app.Id, 10), nil
}
