package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creamcroissant/namegate/internal/cache"
	"github.com/creamcroissant/namegate/internal/repository"
	"github.com/creamcroissant/namegate/internal/security"
	"github.com/creamcroissant/namegate/internal/validate"
)

// CheckInput carries one check request through the pipeline.
type CheckInput struct {
	Username string
	Source   string // cli, http, tui
	IP       string // empty outside the HTTP path
}

// CheckOutput is the verdict returned to callers.
type CheckOutput struct {
	CheckID    string               `json:"check_id,omitempty"`
	Username   string               `json:"username"`
	Valid      bool                 `json:"valid"`
	Message    string               `json:"message"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

// CheckService evaluates usernames against the configured policy and keeps
// an audit trail of verdicts.
type CheckService interface {
	Check(ctx context.Context, input CheckInput) (*CheckOutput, error)
	Policy() validate.Policy
}

// CheckOptions configure the service. Policy is the only required field;
// everything else degrades to a plain in-process check.
type CheckOptions struct {
	Policy     validate.Policy
	Logs       repository.CheckLogRepository
	Cache      cache.Store
	Limiter    *security.RateLimiter
	Audit      security.Recorder
	RateLimit  int
	RateWindow time.Duration
}

type checkService struct {
	policy     validate.Policy
	logs       repository.CheckLogRepository
	verdicts   cache.Store
	limiter    *security.RateLimiter
	audit      security.Recorder
	rateLimit  int
	rateWindow time.Duration
}

const verdictCacheTTL = time.Minute

// NewCheckService assembles the check pipeline.
func NewCheckService(opts CheckOptions) CheckService {
	var verdicts cache.Store
	if opts.Cache != nil {
		verdicts = opts.Cache.Namespace("verdict")
	}
	return &checkService{
		policy:     opts.Policy,
		logs:       opts.Logs,
		verdicts:   verdicts,
		limiter:    opts.Limiter,
		audit:      opts.Audit,
		rateLimit:  opts.RateLimit,
		rateWindow: opts.RateWindow,
	}
}

func (s *checkService) Policy() validate.Policy {
	return s.policy
}

// Check is total over username input: empty or outlandish strings produce an
// invalid verdict, never an error. Errors are reserved for infrastructure
// failures and rate limiting.
func (s *checkService) Check(ctx context.Context, input CheckInput) (*CheckOutput, error) {
	if s == nil {
		return nil, fmt.Errorf("check service not initialized")
	}

	if err := s.ensureRateLimit(ctx, input.IP); err != nil {
		return nil, err
	}

	username := validate.Normalize(input.Username)

	if out, ok := s.cachedVerdict(ctx, username); ok {
		s.record(ctx, out, input)
		return out, nil
	}

	result := s.policy.Check(username)
	out := &CheckOutput{
		CheckID:    newCheckID(),
		Username:   username,
		Valid:      result.Valid,
		Message:    validate.Message(username, result.Valid),
		Violations: result.Violations,
	}

	if s.verdicts != nil {
		// Cache failures must not block the verdict.
		_ = s.verdicts.SetJSON(ctx, verdictKey(username), out, verdictCacheTTL)
	}

	s.record(ctx, out, input)
	return out, nil
}

func (s *checkService) ensureRateLimit(ctx context.Context, ip string) error {
	if s.limiter == nil || s.rateLimit <= 0 || strings.TrimSpace(ip) == "" {
		return nil
	}
	result, err := s.limiter.Allow(ctx, "check:"+ip, s.rateLimit, s.rateWindow)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return ErrRateLimited
	}
	return nil
}

// cachedVerdict returns a memoized verdict with a fresh check id so every
// request keeps its own audit identity.
func (s *checkService) cachedVerdict(ctx context.Context, username string) (*CheckOutput, bool) {
	if s.verdicts == nil {
		return nil, false
	}
	var cached CheckOutput
	found, err := s.verdicts.GetJSON(ctx, verdictKey(username), &cached)
	if err != nil || !found {
		return nil, false
	}
	cached.CheckID = newCheckID()
	return &cached, true
}

func (s *checkService) record(ctx context.Context, out *CheckOutput, input CheckInput) {
	if s.audit != nil && !out.Valid {
		s.audit.Record(ctx, security.Event{
			Kind:    "username_rejected",
			Subject: out.Username,
			IP:      input.IP,
			Metadata: map[string]any{
				"check_id": out.CheckID,
				"reasons":  reasonCodes(out.Violations),
			},
		})
	}

	if s.logs == nil {
		return
	}
	log := &repository.CheckLog{
		CheckID:  out.CheckID,
		Username: out.Username,
		Valid:    out.Valid,
		Reasons:  reasonCodes(out.Violations),
		Source:   input.Source,
		SourceIP: input.IP,
	}
	if err := s.logs.Create(ctx, log); err != nil && s.audit != nil {
		s.audit.Record(ctx, security.Event{
			Kind:     "check_log_write_failed",
			Subject:  out.Username,
			Metadata: map[string]any{"error": err.Error()},
		})
	}
}

func reasonCodes(violations []validate.Violation) string {
	if len(violations) == 0 {
		return ""
	}
	codes := make([]string, 0, len(violations))
	for _, v := range violations {
		codes = append(codes, string(v.Code))
	}
	return strings.Join(codes, ",")
}

func newCheckID() string {
	return strings.ToLower(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func verdictKey(username string) string {
	return "u:" + username
}
