// Package advisor holds the outbound transports to the coupon advisor.
package advisor

import (
	"fmt"
	"io"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewPublisher builds the publisher selected by cfg.Transport. The returned
// closer releases transport resources. For the "none" transport the
// publisher is nil.
func NewPublisher(cfg config.AdvisoryConfig) (advisory.Publisher, io.Closer, error) {
	switch cfg.Transport {
	case config.TransportWebhook:
		return NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookSecret, cfg.Timeout), nopCloser{}, nil
	case config.TransportAMQP:
		p, err := DialRabbit(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.TransportNone, "":
		return nil, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown advisory transport %q", cfg.Transport)
	}
}
