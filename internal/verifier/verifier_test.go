package verifier

import (
	"context"
	"net"
	"testing"
	"time"

	"postguard/internal/config"
	"postguard/pkg/models"
)

type fakeResolver struct {
	addrs map[string][]string
	err   error
	calls int
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if addrs, ok := f.addrs[host]; ok {
		return addrs, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

type fakeArchive struct {
	firstSeen map[string]time.Time
	err       error
}

func (f *fakeArchive) FirstSnapshot(ctx context.Context, domain string) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	ts, ok := f.firstSeen[domain]
	return ts, ok, nil
}

func testVerifier(t *testing.T, resolver *fakeResolver, archive *fakeArchive, now time.Time) *Verifier {
	t.Helper()
	cfg := &config.Config{}
	cfg.Workers.RateLimit = 600

	v := New(cfg,
		WithResolver(resolver),
		WithArchiveClient(archive),
		WithClock(func() time.Time { return now }),
	)
	t.Cleanup(v.Stop)
	return v
}

func TestExtractDomainFromEmail(t *testing.T) {
	v := testVerifier(t, &fakeResolver{}, &fakeArchive{}, time.Now())

	tests := []struct {
		email string
		want  string
	}{
		{"jobs@acme.com", "acme.com"},
		{"Jobs@ACME.COM", "acme.com"},
		{"  user@Example.Org ", "example.org"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := v.ExtractDomainFromEmail(tt.email); got != tt.want {
			t.Errorf("ExtractDomainFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestExtractDomainFromURL(t *testing.T) {
	v := testVerifier(t, &fakeResolver{}, &fakeArchive{}, time.Now())

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.Acme.com/jobs", "acme.com"},
		{"http://acme.com", "acme.com"},
		{"www.acme.com/careers/123", "acme.com"},
		{"acme.com", "acme.com"},
		{"https://acme.com:8443/jobs", "acme.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := v.ExtractDomainFromURL(tt.url); got != tt.want {
			t.Errorf("ExtractDomainFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestVerifyEmailDomainFreeProvider(t *testing.T) {
	resolver := &fakeResolver{}
	v := testVerifier(t, resolver, &fakeArchive{}, time.Now())

	result := v.VerifyEmailDomain(context.Background(), "recruiter@gmail.com")

	if !result.Success || !result.IsFreeProvider || !result.Exists {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Flags) != 1 {
		t.Fatalf("expected exactly one flag, got %d", len(result.Flags))
	}
	flag := result.Flags[0]
	if flag.Finding != "free_email_provider" || flag.Severity != models.SeverityCritical {
		t.Errorf("unexpected flag: %+v", flag)
	}
	if resolver.calls != 0 {
		t.Errorf("free-provider path must not touch DNS, got %d lookups", resolver.calls)
	}
}

func TestVerifyEmailDomainInvalid(t *testing.T) {
	v := testVerifier(t, &fakeResolver{}, &fakeArchive{}, time.Now())

	result := v.VerifyEmailDomain(context.Background(), "not-an-email")
	if result.Success {
		t.Error("invalid email should not succeed")
	}
	if len(result.Flags) != 1 || result.Flags[0].Finding != "invalid_email" || result.Flags[0].Severity != models.SeverityMedium {
		t.Errorf("unexpected flags: %+v", result.Flags)
	}
}

func TestCheckDomainExistsNotFound(t *testing.T) {
	v := testVerifier(t, &fakeResolver{}, &fakeArchive{}, time.Now())

	result := v.CheckDomainExists(context.Background(), "no-such-domain-xyz.com")

	if result.Exists || result.Success {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.IPAddress != "" {
		t.Errorf("non-existent domain must carry no IP, got %q", result.IPAddress)
	}
	if len(result.Flags) != 1 {
		t.Fatalf("expected exactly one flag, got %d", len(result.Flags))
	}
	if result.Flags[0].Finding != "domain_not_found" || result.Flags[0].Severity != models.SeverityCritical {
		t.Errorf("unexpected flag: %+v", result.Flags[0])
	}
}

func TestCheckDomainExistsResolutionError(t *testing.T) {
	// A timeout is not evidence the domain is missing, only that the check
	// could not complete
	resolver := &fakeResolver{err: &net.DNSError{Err: "i/o timeout", Name: "acme.com", IsTimeout: true}}
	v := testVerifier(t, resolver, &fakeArchive{}, time.Now())

	result := v.CheckDomainExists(context.Background(), "acme.com")

	if result.Success {
		t.Errorf("resolution error must report success=false: %+v", result)
	}
	if result.Exists {
		t.Errorf("resolution error must not claim the domain exists: %+v", result)
	}
	if result.Error == "" {
		t.Error("expected the resolver error to be recorded")
	}
	if len(result.Flags) != 1 {
		t.Fatalf("expected exactly one flag, got %d", len(result.Flags))
	}
	if result.Flags[0].Finding != "verification_error" || result.Flags[0].Severity != models.SeverityMedium {
		t.Errorf("unexpected flag: %+v", result.Flags[0])
	}
}

func TestCheckDomainExistsResolved(t *testing.T) {
	resolver := &fakeResolver{addrs: map[string][]string{"acme.com": {"93.184.216.34"}}}
	v := testVerifier(t, resolver, &fakeArchive{}, time.Now())

	result := v.CheckDomainExists(context.Background(), "acme.com")
	if !result.Exists || !result.Success || result.IPAddress != "93.184.216.34" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Flags) != 0 {
		t.Errorf("resolvable domain should carry no flags, got %+v", result.Flags)
	}
}

func TestCheckDomainAgeThresholds(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ageDays  int
		wantFlag string
		wantSev  models.Severity
	}{
		{"brand new", 30, "new_domain", models.SeverityHigh},
		{"under six months", 179, "new_domain", models.SeverityHigh},
		{"under a year", 200, "relatively_new", models.SeverityMedium},
		{"established", 400, "", ""},
		{"five years", 1825, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := &fakeArchive{firstSeen: map[string]time.Time{
				"acme.com": now.AddDate(0, 0, -tt.ageDays),
			}}
			v := testVerifier(t, &fakeResolver{}, archive, now)

			flags, ageInfo, ok := v.CheckDomainAge(context.Background(), "acme.com")
			if !ok {
				t.Fatal("age check should succeed")
			}
			if ageInfo == nil || ageInfo.AgeDays != tt.ageDays {
				t.Fatalf("ageInfo = %+v, want age_days %d", ageInfo, tt.ageDays)
			}

			if tt.wantFlag == "" {
				if len(flags) != 0 {
					t.Errorf("expected no flags, got %+v", flags)
				}
				return
			}
			if len(flags) != 1 || flags[0].Finding != tt.wantFlag || flags[0].Severity != tt.wantSev {
				t.Errorf("flags = %+v, want one %s/%s", flags, tt.wantFlag, tt.wantSev)
			}
		})
	}
}

func TestCheckDomainAgeNoHistory(t *testing.T) {
	v := testVerifier(t, &fakeResolver{}, &fakeArchive{}, time.Now())

	flags, ageInfo, ok := v.CheckDomainAge(context.Background(), "never-archived.com")
	if ok {
		t.Error("missing history should report ok=false")
	}
	if ageInfo != nil {
		t.Errorf("no snapshot should yield nil age info, got %+v", ageInfo)
	}
	if len(flags) != 1 || flags[0].Finding != "no_history" || flags[0].Severity != models.SeverityHigh {
		t.Errorf("flags = %+v", flags)
	}
}

func TestFullDomainCheckCombinesFlags(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	resolver := &fakeResolver{addrs: map[string][]string{"fresh-startup.com": {"10.0.0.1"}}}
	archive := &fakeArchive{firstSeen: map[string]time.Time{
		"fresh-startup.com": now.AddDate(0, 0, -30),
	}}
	v := testVerifier(t, resolver, archive, now)

	result := v.FullDomainCheck(context.Background(), "fresh-startup.com")
	if !result.Exists {
		t.Fatalf("domain should exist: %+v", result)
	}
	if result.AgeInfo == nil || result.AgeInfo.AgeDays != 30 {
		t.Errorf("age info = %+v", result.AgeInfo)
	}
	if len(result.Flags) != 1 || result.Flags[0].Finding != "new_domain" {
		t.Errorf("flags = %+v", result.Flags)
	}
}

func TestFullDomainCheckNonExistentSkipsAge(t *testing.T) {
	archive := &fakeArchive{firstSeen: map[string]time.Time{"gone.com": time.Now()}}
	v := testVerifier(t, &fakeResolver{}, archive, time.Now())

	result := v.FullDomainCheck(context.Background(), "gone.com")
	if result.Exists {
		t.Fatal("domain should not exist")
	}
	if result.AgeInfo != nil {
		t.Error("age check must be skipped for non-existent domains")
	}
}

type mapCache struct {
	entries map[string]*models.DomainVerificationResult
	sets    int
}

func (m *mapCache) GetDomainVerification(ctx context.Context, domain string) (*models.DomainVerificationResult, bool) {
	r, ok := m.entries[domain]
	return r, ok
}

func (m *mapCache) SetDomainVerification(ctx context.Context, domain string, result *models.DomainVerificationResult) error {
	m.sets++
	m.entries[domain] = result
	return nil
}

func TestFullDomainCheckUsesCache(t *testing.T) {
	resolver := &fakeResolver{addrs: map[string][]string{"acme.com": {"10.0.0.1"}}}
	cache := &mapCache{entries: map[string]*models.DomainVerificationResult{}}

	cfg := &config.Config{}
	cfg.Workers.RateLimit = 600
	v := New(cfg,
		WithResolver(resolver),
		WithArchiveClient(&fakeArchive{firstSeen: map[string]time.Time{"acme.com": time.Now().AddDate(-5, 0, 0)}}),
		WithCache(cache),
	)
	t.Cleanup(v.Stop)

	v.FullDomainCheck(context.Background(), "acme.com")
	v.FullDomainCheck(context.Background(), "acme.com")

	if resolver.calls != 1 {
		t.Errorf("second check should be served from cache, got %d DNS lookups", resolver.calls)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
}
