package payment

import (
	"strconv"
	"time"

	"github.com/mizuki-dev/GiftMarche/internal/pkg/env"
)

// Config carries everything the pipeline needs at construction time. It is
// passed explicitly instead of being read from a global so handlers stay
// testable.
type Config struct {
	// PlatformWebhookSecret verifies events for the platform account.
	PlatformWebhookSecret string
	// ConnectWebhookSecret verifies events for connected seller accounts.
	ConnectWebhookSecret string
	// ProcessorFeePercent is the provider's share added on top of the shop fee.
	ProcessorFeePercent float64
	// LiveMode enables the stricter external-account checks that only make
	// sense against real bank accounts.
	LiveMode bool
	// PollInterval is the account status poller tick.
	PollInterval time.Duration
	// PollTimeout bounds the poller's lifetime per Start call.
	PollTimeout time.Duration
}

// ConfigFromEnv builds the pipeline config from the loaded environment.
func ConfigFromEnv() Config {
	processorFee, err := strconv.ParseFloat(env.GetEnv("STRIPE_PROCESSOR_FEE_PERCENT", "3.6"), 64)
	if err != nil {
		processorFee = 3.6
	}

	pollInterval, err := time.ParseDuration(env.GetEnv("ACCOUNT_POLL_INTERVAL", "30s"))
	if err != nil {
		pollInterval = 30 * time.Second
	}
	pollTimeout, err := time.ParseDuration(env.GetEnv("ACCOUNT_POLL_TIMEOUT", "15m"))
	if err != nil {
		pollTimeout = 15 * time.Minute
	}

	return Config{
		PlatformWebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		ConnectWebhookSecret:  env.GetEnv("STRIPE_CONNECT_WEBHOOK_SECRET", ""),
		ProcessorFeePercent:   processorFee,
		LiveMode:              env.GetEnv("STRIPE_LIVE_MODE", "false") == "true",
		PollInterval:          pollInterval,
		PollTimeout:           pollTimeout,
	}
}
