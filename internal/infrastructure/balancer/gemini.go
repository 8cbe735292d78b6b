package balancer

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/platform/resilience"
	"github.com/riskibarqy/futgol/internal/usecase"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	maxBodyLog     = 512
)

var errGeminiTransient = crerr.New("gemini transient failure")

type GeminiConfig struct {
	BaseURL        string
	Model          string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.Config
}

// GeminiClient asks a generateContent model to split players and expects a
// JSON answer shaped like match.Lineup.
type GeminiClient struct {
	http    *fasthttp.Client
	baseURL string
	model   string
	apiKey  string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.Breaker
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.State) {
			logger.Warn("gemini circuit breaker state changed", "from", string(from), "to", string(to))
		}
	}

	return &GeminiClient{
		http: &fasthttp.Client{
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
			MaxConnsPerHost: 16,
		},
		baseURL: baseURL,
		model:   model,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		logger:  logger,
		breaker: resilience.New(breakerCfg),
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

var lineupSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"teamAIds":  map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"teamBIds":  map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"reasoning": map[string]any{"type": "STRING"},
	},
	"required": []string{"teamAIds", "teamBIds", "reasoning"},
}

func (c *GeminiClient) Balance(ctx context.Context, candidates []match.Candidate) (match.Lineup, error) {
	if len(candidates) < 2 {
		return match.Lineup{}, crerr.Newf("need at least 2 players, got %d", len(candidates))
	}
	if c.apiKey == "" {
		return match.Lineup{}, crerr.New("balancer api key is not configured")
	}
	body, err := sonic.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: buildPrompt(candidates)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   lineupSchema,
		},
	})
	if err != nil {
		return match.Lineup{}, crerr.Wrap(err, "marshal generate request")
	}

	raw, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, body)
	}, isTransient)
	if stderrors.Is(err, resilience.ErrOpen) {
		c.logger.WarnContext(ctx, "gemini circuit breaker rejected request", "state", string(c.breaker.State()))
		return match.Lineup{}, fmt.Errorf("%w: team balancer is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return match.Lineup{}, err
	}

	lineup, err := decodeLineup(raw)
	if err != nil {
		return match.Lineup{}, err
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("balancer.model", c.model),
			attribute.Int("balancer.candidates", len(candidates)),
			attribute.Int("balancer.team_a", len(lineup.TeamA)),
			attribute.Int("balancer.team_b", len(lineup.TeamB)),
		)
	}
	return lineup, nil
}

func (c *GeminiClient) post(ctx context.Context, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.endpoint())
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %s", errGeminiTransient, redactKey(err.Error(), c.apiKey))
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		snippet := abbreviate(resp.Body(), maxBodyLog)
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: gemini status=%d body=%s", errGeminiTransient, status, snippet)
		}
		return nil, crerr.Newf("gemini status=%d body=%s", status, snippet)
	}

	return append([]byte(nil), resp.Body()...), nil
}

func (c *GeminiClient) endpoint() string {
	return c.baseURL + "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent?key=" + url.QueryEscape(c.apiKey)
}

func (c *GeminiClient) deadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func isTransient(err error) bool {
	return stderrors.Is(err, errGeminiTransient)
}

func decodeLineup(raw []byte) (match.Lineup, error) {
	var payload generateResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return match.Lineup{}, crerr.Wrap(err, "decode gemini response")
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return match.Lineup{}, crerr.New("gemini response has no candidates")
	}

	text := strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "```")), "```")

	var lineup match.Lineup
	if err := sonic.UnmarshalString(strings.TrimSpace(text), &lineup); err != nil {
		return match.Lineup{}, crerr.Wrap(err, "decode lineup text")
	}
	if len(lineup.TeamA) == 0 || len(lineup.TeamB) == 0 {
		return match.Lineup{}, crerr.New("gemini returned an empty team")
	}
	return lineup, nil
}

func buildPrompt(candidates []match.Candidate) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Split the following pickup soccer players into two balanced teams, A and B. ")
	_, _ = buf.WriteString("Balance the sum of ratings (1 to 5) and spread positions; never put two GOLEIRO on the same team when avoidable. ")
	_, _ = buf.WriteString("Team sizes may differ by at most one. Use only the ids listed. ")
	_, _ = buf.WriteString("Answer with teamAIds, teamBIds and a short reasoning in Portuguese.\n\nPlayers:\n")
	for _, c := range candidates {
		_, _ = buf.WriteString("- id=")
		_, _ = buf.WriteString(c.ID)
		_, _ = buf.WriteString(" name=")
		_, _ = buf.WriteString(c.Name)
		_, _ = buf.WriteString(" rating=")
		_, _ = buf.WriteString(strconv.FormatFloat(c.Rating, 'f', 1, 64))
		_, _ = buf.WriteString(" position=")
		_, _ = buf.WriteString(c.Position)
		_ = buf.WriteByte('\n')
	}
	return buf.String()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func redactKey(text, key string) string {
	if key == "" {
		return text
	}
	return strings.ReplaceAll(text, key, "***")
}

func abbreviate(raw []byte, max int) string {
	text := strings.TrimSpace(string(raw))
	if len(text) <= max {
		return text
	}
	return text[:max] + "...(truncated)"
}
