package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/config"
)

// PrintBanner prints the startup summary
func PrintBanner(w io.Writer, cfg *config.Config, sessionID string) {
	fmt.Fprintf(w, "storefront: listening on :%d (session %s)\n", cfg.Server.Port, sessionID)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	adv := cfg.Advisory
	switch adv.Transport {
	case config.TransportWebhook:
		fmt.Fprintf(w, "Advisor: webhook %s | Timeout: %s", adv.WebhookURL, adv.Timeout)
	case config.TransportAMQP:
		fmt.Fprintf(w, "Advisor: amqp exchange=%s | Timeout: %s", adv.Exchange, adv.Timeout)
	default:
		fmt.Fprint(w, "Advisor: none (local suggestions only)")
	}
	if adv.LocalFallback {
		fmt.Fprint(w, " | Fallback: local")
	}
	fmt.Fprintln(w)

	if cfg.Storage.DatabasePath == "" {
		fmt.Fprintln(w, "Call log: in memory")
	} else {
		fmt.Fprintf(w, "Call log: %s\n", cfg.Storage.DatabasePath)
	}
	fmt.Fprintln(w)
}
