// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_cloudonix

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rapidaai/pbx-admin/pkg/commons"
	"github.com/rapidaai/pbx-admin/pkg/configs"
)

// ApiError carries the platform's HTTP status so callers can decide between
// retry, surface and ignore.
type ApiError struct {
	StatusCode int
	Body       string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("cloudonix api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the platform answered 404.
func (e *ApiError) IsNotFound() bool {
	return e.StatusCode == 404
}

// Subscriber is a SIP endpoint on a Cloudonix domain. MSISDN carries the
// extension number inside the domain.
type Subscriber struct {
	Id          int64  `json:"id,omitempty"`
	Msisdn      string `json:"msisdn"`
	SipPassword string `json:"sip-password,omitempty"`
	Active      bool   `json:"active"`
}

// VoiceApplication is the per-DID routing application on a domain.
type VoiceApplication struct {
	Id     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Url    string `json:"url"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// Client is the thin typed wrapper over the Cloudonix REST API.
type Client interface {
	CreateSubscriber(ctx context.Context, domain string, subscriber *Subscriber) (*Subscriber, error)
	UpdateSubscriber(ctx context.Context, domain string, subscriberId string, subscriber *Subscriber) (*Subscriber, error)
	DeleteSubscriber(ctx context.Context, domain string, subscriberId string) error

	UpsertVoiceApplication(ctx context.Context, domain string, applicationId string, application *VoiceApplication) (*VoiceApplication, error)
	DeleteVoiceApplication(ctx context.Context, domain string, applicationId string) error
}

type client struct {
	http   *resty.Client
	logger commons.Logger
}

// NewClient builds the resty-backed client: bearer API key, 10s timeout and
// two retries with backoff on transport errors and 5xx answers.
func NewClient(cfg configs.CloudonixConfig, logger commons.Logger) Client {
	http := resty.New().
		SetBaseURL(cfg.BaseUrl).
		SetAuthToken(cfg.ApiKey).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &client{http: http, logger: logger}
}

// NewClientWithHTTP wraps a prepared resty client. Used by tests against httptest.
func NewClientWithHTTP(http *resty.Client, logger commons.Logger) Client {
	return &client{http: http, logger: logger}
}

func (c *client) CreateSubscriber(ctx context.Context, domain string, subscriber *Subscriber) (*Subscriber, error) {
	var created Subscriber
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(subscriber).
		SetResult(&created).
		Post(fmt.Sprintf("/customers/self/domains/%s/subscribers", domain))
	if err != nil {
		return nil, fmt.Errorf("unable to create subscriber %s: %w", subscriber.Msisdn, err)
	}
	if resp.IsError() {
		return nil, &ApiError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Infof("provisioned cloudonix subscriber %s on domain %s", subscriber.Msisdn, domain)
	return &created, nil
}

func (c *client) UpdateSubscriber(ctx context.Context, domain string, subscriberId string, subscriber *Subscriber) (*Subscriber, error) {
	var updated Subscriber
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(subscriber).
		SetResult(&updated).
		Put(fmt.Sprintf("/customers/self/domains/%s/subscribers/%s", domain, subscriberId))
	if err != nil {
		return nil, fmt.Errorf("unable to update subscriber %s: %w", subscriberId, err)
	}
	if resp.IsError() {
		return nil, &ApiError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &updated, nil
}

func (c *client) DeleteSubscriber(ctx context.Context, domain string, subscriberId string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/customers/self/domains/%s/subscribers/%s", domain, subscriberId))
	if err != nil {
		return fmt.Errorf("unable to delete subscriber %s: %w", subscriberId, err)
	}
	if resp.IsError() {
		return &ApiError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

func (c *client) UpsertVoiceApplication(ctx context.Context, domain string, applicationId string, application *VoiceApplication) (*VoiceApplication, error) {
	var result VoiceApplication
	req := c.http.R().
		SetContext(ctx).
		SetBody(application).
		SetResult(&result)

	var (
		resp *resty.Response
		err  error
	)
	if applicationId == "" {
		resp, err = req.Post(fmt.Sprintf("/customers/self/domains/%s/applications", domain))
	} else {
		resp, err = req.Put(fmt.Sprintf("/customers/self/domains/%s/applications/%s", domain, applicationId))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to upsert voice application %s: %w", application.Name, err)
	}
	if resp.IsError() {
		return nil, &ApiError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &result, nil
}

func (c *client) DeleteVoiceApplication(ctx context.Context, domain string, applicationId string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/customers/self/domains/%s/applications/%s", domain, applicationId))
	if err != nil {
		return fmt.Errorf("unable to delete voice application %s: %w", applicationId, err)
	}
	if resp.IsError() {
		return &ApiError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
