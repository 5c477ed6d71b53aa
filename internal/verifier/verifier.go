package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// FreeEmailProviders are consumer email domains whose use by a purported
// employer is itself suspicious. Membership is checked before any DNS
// lookup; these domains trivially exist.
var FreeEmailProviders = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"protonmail.com": true,
	"mail.com":       true,
	"icloud.com":     true,
	"yandex.com":     true,
	"zoho.com":       true,
	"gmx.com":        true,
}

// Cache stores verification results between requests. Implementations may
// be unavailable; the verifier treats every cache error as a miss.
type Cache interface {
	GetDomainVerification(ctx context.Context, domain string) (*models.DomainVerificationResult, bool)
	SetDomainVerification(ctx context.Context, domain string, result *models.DomainVerificationResult) error
}

// Verifier runs the domain-trust state machine: input normalization, the
// free-provider short-circuit, DNS existence, and archive-based age. Every
// entry point returns a result object; lookup failures become findings, not
// errors.
type Verifier struct {
	resolver Resolver
	archive  ArchiveClient
	limiter  *RateLimiter
	cache    Cache
	logger   logging.Logger
	now      func() time.Time
}

// Option customizes a Verifier
type Option func(*Verifier)

// WithResolver substitutes the DNS boundary
func WithResolver(r Resolver) Option {
	return func(v *Verifier) { v.resolver = r }
}

// WithArchiveClient substitutes the archive boundary
func WithArchiveClient(a ArchiveClient) Option {
	return func(v *Verifier) { v.archive = a }
}

// WithCache attaches a verification result cache
func WithCache(c Cache) Option {
	return func(v *Verifier) { v.cache = c }
}

// WithClock substitutes the time source used for age computation
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// New creates a Verifier from configuration
func New(cfg *config.Config, opts ...Option) *Verifier {
	v := &Verifier{
		resolver: NewNetResolver(cfg.Verifier.DNSTimeout),
		archive:  NewWaybackClient(cfg.Verifier.ArchiveBaseURL, cfg.Verifier.ArchiveTimeout),
		limiter:  NewRateLimiter(cfg.Workers.RateLimit),
		logger:   logging.GetGlobalLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Stop releases the verifier's background resources
func (v *Verifier) Stop() {
	if v.limiter != nil {
		v.limiter.Stop()
	}
}

var schemeRegex = regexp.MustCompile(`^https?://`)

// ExtractDomainFromEmail returns the lowercased domain of an email address,
// or "" when the address is malformed.
func (v *Verifier) ExtractDomainFromEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ExtractDomainFromURL returns the bare lowercased host of a URL, stripping
// scheme, leading www., path, and port.
func (v *Verifier) ExtractDomainFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	host := schemeRegex.ReplaceAllString(rawURL, "")
	host = strings.TrimPrefix(host, "www.")
	if slash := strings.Index(host, "/"); slash >= 0 {
		host = host[:slash]
	}
	if colon := strings.Index(host, ":"); colon >= 0 {
		host = host[:colon]
	}

	return strings.ToLower(host)
}

// CheckDomainExists resolves a domain via DNS. Resolution failure yields a
// critical domain_not_found finding; any other resolution error yields a
// medium verification_error finding. Both are terminal for the check.
func (v *Verifier) CheckDomainExists(ctx context.Context, domain string) *models.DomainVerificationResult {
	if !v.limiter.Allow(domain) {
		return &models.DomainVerificationResult{
			Success: false,
			Domain:  domain,
			Error:   "verification temporarily suspended for domain",
			Flags: []models.Finding{
				models.MustFinding(models.CategoryDomain, models.SeverityMedium,
					"verification_error",
					fmt.Sprintf("Could not verify domain %s: too many recent failures", domain), 0.5),
			},
		}
	}

	addrs, err := v.resolver.LookupHost(ctx, domain)
	if err == nil && len(addrs) > 0 {
		v.limiter.RecordSuccess(domain)
		return &models.DomainVerificationResult{
			Success:   true,
			Domain:    domain,
			Exists:    true,
			IPAddress: addrs[0],
			Flags:     []models.Finding{},
		}
	}

	v.limiter.RecordFailure(domain)

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return &models.DomainVerificationResult{
			Success: false,
			Domain:  domain,
			Exists:  false,
			Flags: []models.Finding{
				models.MustFinding(models.CategoryDomain, models.SeverityCritical,
					"domain_not_found",
					fmt.Sprintf("Domain %s does not exist or cannot be resolved", domain), 0.95),
			},
		}
	}

	detail := "no addresses returned"
	if err != nil {
		detail = err.Error()
	}
	return &models.DomainVerificationResult{
		Success: false,
		Domain:  domain,
		Error:   detail,
		Flags: []models.Finding{
			models.MustFinding(models.CategoryDomain, models.SeverityMedium,
				"verification_error",
				fmt.Sprintf("Could not verify domain %s: %s", domain, detail), 0.5),
		},
	}
}

// CheckDomainAge estimates domain age from the earliest archived snapshot.
// ageInfo is nil when no snapshot exists; lookup failure is reported through
// ok=false with no findings, since absence of archive data is weaker
// evidence than a confirmed young domain.
func (v *Verifier) CheckDomainAge(ctx context.Context, domain string) (flags []models.Finding, ageInfo *models.AgeInfo, ok bool) {
	firstSeen, found, err := v.archive.FirstSnapshot(ctx, domain)
	if err != nil {
		v.logger.Debug("Archive lookup failed", map[string]interface{}{
			"domain": domain,
			"error":  err.Error(),
		})
		return nil, nil, false
	}

	if !found {
		return []models.Finding{
			models.MustFinding(models.CategoryDomain, models.SeverityHigh,
				"no_history",
				fmt.Sprintf("Domain %s has no web archive history - likely very new or never had content", domain), 0.6),
		}, nil, false
	}

	ageDays := int(v.now().Sub(firstSeen).Hours() / 24)
	ageInfo = &models.AgeInfo{
		FirstSeen: firstSeen.Format("2006-01-02"),
		AgeDays:   ageDays,
		AgeYears:  float64(int(float64(ageDays)/365*10)) / 10,
	}

	switch {
	case ageDays < 180:
		flags = []models.Finding{
			models.MustFinding(models.CategoryDomain, models.SeverityHigh,
				"new_domain",
				fmt.Sprintf("Domain first appeared only %d days ago", ageDays), 0.85),
		}
	case ageDays < 365:
		flags = []models.Finding{
			models.MustFinding(models.CategoryDomain, models.SeverityMedium,
				"relatively_new",
				fmt.Sprintf("Domain is less than a year old (%d days)", ageDays), 0.7),
		}
	}

	return flags, ageInfo, true
}

// FullDomainCheck combines existence and age verification for a domain.
// Existence flags precede age flags in the combined result. Results are
// cached when a cache is attached.
func (v *Verifier) FullDomainCheck(ctx context.Context, domain string) *models.DomainVerificationResult {
	if v.cache != nil {
		if cached, hit := v.cache.GetDomainVerification(ctx, domain); hit {
			return cached
		}
	}

	result := v.CheckDomainExists(ctx, domain)
	if result.Exists {
		ageFlags, ageInfo, _ := v.CheckDomainAge(ctx, domain)
		result.AgeInfo = ageInfo
		result.Flags = append(result.Flags, ageFlags...)
	}

	if v.cache != nil {
		if err := v.cache.SetDomainVerification(ctx, domain, result); err != nil {
			v.logger.Debug("Failed to cache verification result", map[string]interface{}{
				"domain": domain,
				"error":  err.Error(),
			})
		}
	}

	return result
}

// VerifyEmailDomain runs the email side of the state machine: normalize,
// free-provider short-circuit, then DNS existence. Free-provider emails skip
// DNS entirely; the flag fires regardless of resolvability.
func (v *Verifier) VerifyEmailDomain(ctx context.Context, email string) *models.DomainVerificationResult {
	domain := v.ExtractDomainFromEmail(email)
	if domain == "" {
		return &models.DomainVerificationResult{
			Success: false,
			Error:   "invalid email format",
			Flags: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityMedium,
					"invalid_email", "Email format is invalid", 0.8),
			},
		}
	}

	if FreeEmailProviders[domain] {
		return &models.DomainVerificationResult{
			Success:        true,
			Domain:         domain,
			Exists:         true,
			IsFreeProvider: true,
			Flags: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityCritical,
					"free_email_provider",
					fmt.Sprintf("Using free email provider (%s) - legitimate companies use company domains", domain), 0.95),
			},
		}
	}

	result := v.CheckDomainExists(ctx, domain)
	result.IsFreeProvider = false
	return result
}

// VerifyWebsiteDomain runs the website side of the state machine: normalize,
// then combined existence and age verification.
func (v *Verifier) VerifyWebsiteDomain(ctx context.Context, rawURL string) *models.DomainVerificationResult {
	domain := v.ExtractDomainFromURL(rawURL)
	if domain == "" {
		return &models.DomainVerificationResult{
			Success: false,
			Error:   "invalid URL format",
			Flags: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityMedium,
					"invalid_url", "URL format is invalid", 0.8),
			},
		}
	}

	return v.FullDomainCheck(ctx, domain)
}
