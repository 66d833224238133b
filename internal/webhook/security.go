package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
	deliveries  *expirable.LRU[string, struct{}]
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	return &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
		deliveries:  expirable.NewLRU[string, struct{}](10000, nil, 24*time.Hour),
	}
}

// ValidateGitHubSignature verifies GitHub webhook signature
func (v *SecurityValidator) ValidateGitHubSignature(payload []byte, signature string) error {
	if v.config.Secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}

	// GitHub sends signature as "sha256=<hex>"
	expectedSigHex, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return fmt.Errorf("invalid signature format")
	}

	expectedSig, err := hex.DecodeString(expectedSigHex)
	if err != nil {
		return fmt.Errorf("invalid signature hex encoding: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(v.config.Secret))
	mac.Write(payload)
	actualSig := mac.Sum(nil)

	if !hmac.Equal(expectedSig, actualSig) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// ValidateToken verifies the shared secret sent by manual triggers
func (v *SecurityValidator) ValidateToken(token string) error {
	if v.config.Secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(v.config.Secret)) != 1 {
		return fmt.Errorf("invalid token")
	}

	return nil
}

// ValidateIPAddress checks if the client IP is whitelisted. The IP must come
// from gin's ClientIP so forwarding headers count only from trusted proxies.
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil // No IP restriction
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return fmt.Errorf("invalid client IP %q", ip)
	}

	for _, allowedIP := range v.config.AllowedIPs {
		// CIDR range
		if strings.Contains(allowedIP, "/") {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if ipNet.Contains(parsed) {
				return nil
			}
			continue
		}

		if allowed := net.ParseIP(allowedIP); allowed != nil && allowed.Equal(parsed) {
			return nil
		}
	}

	return fmt.Errorf("IP %s not whitelisted", ip)
}

// CheckRateLimit enforces rate limiting
func (v *SecurityValidator) CheckRateLimit(source string) error {
	return v.rateLimiter.Allow(source)
}

// SeenDelivery reports whether a delivery id was already accepted.
func (v *SecurityValidator) SeenDelivery(id string) bool {
	if id == "" {
		return false
	}
	return v.deliveries.Contains(id)
}

// MarkDelivery remembers an accepted delivery id for a day.
func (v *SecurityValidator) MarkDelivery(id string) {
	if id != "" {
		v.deliveries.Add(id, struct{}{})
	}
}
