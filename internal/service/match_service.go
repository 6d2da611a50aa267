package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/config"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
)

// Context keys forwarded to the engine as headers as well as in the body.
const (
	ContextSessionID = "session_id"
	ContextTenantID  = "tenant_id"
)

var ErrEmptyQuery = errors.New("query text cannot be empty")

// SearchQuery is one scoring request. Context carries opaque correlation ids
// that are passed through to the engine unchanged.
type SearchQuery struct {
	QueryText string
	Context   map[string]string
}

type MatchErrorKind int

const (
	MatchUnreachable MatchErrorKind = iota + 1
	MatchBadResponse
	MatchTimeout
)

func (k MatchErrorKind) String() string {
	switch k {
	case MatchUnreachable:
		return "unreachable"
	case MatchBadResponse:
		return "bad_response"
	case MatchTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// MatchError is a classified engine failure. Status is the HTTP status when
// the engine answered, zero otherwise.
type MatchError struct {
	Kind   MatchErrorKind
	Status int
	Err    error
}

func (e *MatchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("match engine %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("match engine %s: %v", e.Kind, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// Retryable reports whether resubmitting the same query may succeed.
func (e *MatchError) Retryable() bool {
	return e.Kind == MatchTimeout || e.Kind == MatchUnreachable
}

type MatchServiceInterface interface {
	Submit(ctx context.Context, query SearchQuery) ([]candidate.Raw, error)
}

type MatchService struct {
	client  *resty.Client
	url     string
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewMatchService(cfg *config.EngineConfig, log *zap.Logger) (*MatchService, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("ENGINE_URL not set")
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &MatchService{
		client:  client,
		url:     cfg.URL,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.OrNop(log).Named("match"),
	}, nil
}

// Submit issues exactly one call to the engine and returns the raw candidate
// records it produced. It never retries.
func (s *MatchService) Submit(ctx context.Context, query SearchQuery) ([]candidate.Raw, error) {
	text := strings.TrimSpace(query.QueryText)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &MatchError{Kind: MatchTimeout, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	reqContext := query.Context
	if reqContext == nil {
		reqContext = map[string]string{}
	}

	req := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"question": text,
			"context":  reqContext,
		})
	if v := reqContext[ContextSessionID]; v != "" {
		req.SetHeader("X-Session-ID", v)
	}
	if v := reqContext[ContextTenantID]; v != "" {
		req.SetHeader("X-Tenant-ID", v)
	}

	s.logger.Debug("submitting query", zap.String("query", logger.TruncateForLog(text, 120)))

	resp, err := req.Post(s.url)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	body := resp.String()
	if kind, failed := classifyStatus(resp.StatusCode()); failed {
		s.logger.Warn("engine returned error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", logger.TruncateForLog(body, 300)),
		)
		return nil, &MatchError{
			Kind:   kind,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	raws, err := extractCandidates(body)
	if err != nil {
		s.logger.Warn("engine response not understood",
			zap.Error(err),
			zap.String("body", logger.TruncateForLog(body, 300)),
		)
		return nil, &MatchError{Kind: MatchBadResponse, Status: resp.StatusCode(), Err: err}
	}

	s.logger.Debug("engine responded", zap.Int("records", len(raws)), zap.Duration("took", resp.Time()))
	return raws, nil
}

func classifyTransportError(err error) *MatchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &MatchError{Kind: MatchTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &MatchError{Kind: MatchTimeout, Err: err}
	}
	return &MatchError{Kind: MatchUnreachable, Err: err}
}

func classifyStatus(status int) (MatchErrorKind, bool) {
	switch {
	case status >= 200 && status < 300:
		return 0, false
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return MatchTimeout, true
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable:
		return MatchUnreachable, true
	default:
		return MatchBadResponse, true
	}
}

var candidateListKeys = []string{"candidates", "results", "matches"}

// extractCandidates locates the candidate list in an engine response. Entries
// that are not objects become empty records so the normalizer rejects and
// counts them.
func extractCandidates(body string) ([]candidate.Raw, error) {
	if !gjson.Valid(body) {
		return nil, errors.New("response is not valid JSON")
	}

	list, ok := findCandidateList(gjson.Parse(body), true)
	if !ok {
		return nil, errors.New("no candidate list in response")
	}

	raws := make([]candidate.Raw, 0, len(list.Array()))
	list.ForEach(func(_, item gjson.Result) bool {
		m, isMap := item.Value().(map[string]any)
		if !isMap {
			m = map[string]any{}
		}
		raws = append(raws, candidate.Raw(m))
		return true
	})
	return raws, nil
}

func findCandidateList(res gjson.Result, followText bool) (gjson.Result, bool) {
	if res.IsArray() {
		return res, true
	}
	if !res.IsObject() {
		return gjson.Result{}, false
	}
	for _, key := range candidateListKeys {
		if v := res.Get(key); v.IsArray() {
			return v, true
		}
	}
	if followText {
		if text := res.Get("text"); text.Type == gjson.String {
			inner := stripCodeFence(text.String())
			if gjson.Valid(inner) {
				return findCandidateList(gjson.Parse(inner), false)
			}
		}
	}
	return gjson.Result{}, false
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
