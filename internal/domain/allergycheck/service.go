package allergycheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/pollen-advisor/internal/observability"
	apperrors "github.com/yanqian/pollen-advisor/pkg/errors"
)

// Service runs the full allergy check pipeline for one request.
type Service interface {
	Check(ctx context.Context, req Request) (Result, error)
}

// RegionResolver maps a WGS84 point onto the enclosing administrative region.
// Implementations must be safe for unbounded concurrent reads.
type RegionResolver interface {
	Resolve(lat, lng float64) Region
}

// PollenClient fetches the raw pollen series for a region over a compact
// YYYYMMDD date window.
type PollenClient interface {
	Fetch(ctx context.Context, citycode, start, end string) ([]RawRecord, error)
}

// ChatClient is the text-generation capability behind the narrative,
// imputation, and chart stages.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg      Config
	resolver RegionResolver
	pollen   PollenClient
	chat     ChatClient
	metrics  *observability.Metrics
	logger   *slog.Logger
	clock    clockwork.Clock
	timezone *time.Location
}

// NewService wires up the allergy check pipeline.
func NewService(cfg Config, resolver RegionResolver, pollen PollenClient, chat ChatClient, metrics *observability.Metrics, clock clockwork.Clock, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		resolver: resolver,
		pollen:   pollen,
		chat:     chat,
		metrics:  metrics,
		logger:   logger.With("component", "allergycheck.service"),
		clock:    clock,
		timezone: time.FixedZone("Asia/Tokyo", 9*60*60),
	}
}

// Check executes the stages strictly in order: resolve, fetch, sentinel
// split, narrative, imputation, chart. A region miss short-circuits after the
// first stage with an explanatory message rather than an error.
func (s *service) Check(ctx context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		s.metrics.ChecksTotal.WithLabelValues("invalid_input").Inc()
		return Result{}, err
	}

	region := s.resolver.Resolve(req.Lat, req.Lng)
	if !region.Found() {
		s.logger.Info("no enclosing region", "lat", req.Lat, "lng", req.Lng)
		s.metrics.ChecksTotal.WithLabelValues("region_miss").Inc()
		return Result{Message: "行政区域コードが見つかりませんでした"}, nil
	}

	start, end := s.dateWindow()
	fetchStart := s.clock.Now()
	records, err := s.pollen.Fetch(ctx, region.Code, start, end)
	s.metrics.ExternalCallDuration.WithLabelValues("pollen_api").Observe(s.clock.Since(fetchStart).Seconds())
	if err != nil {
		s.metrics.ChecksTotal.WithLabelValues("pollen_data_error").Inc()
		return Result{}, apperrors.Wrap("pollen_data_error", "花粉データの取得に失敗しました", err)
	}
	s.logger.Info("pollen series fetched", "citycode", region.Code, "records", len(records))

	analysis, display := splitSeries(records)

	llmStart := s.clock.Now()
	narrative, err := s.assessNarrative(ctx, req, analysis)
	s.metrics.ExternalCallDuration.WithLabelValues("llm").Observe(s.clock.Since(llmStart).Seconds())
	if err != nil {
		s.metrics.ChecksTotal.WithLabelValues("llm_error").Inc()
		return Result{}, err
	}

	filled := s.fillGaps(ctx, display)
	spec := s.buildChartSpec(ctx, filled)

	s.metrics.ChecksTotal.WithLabelValues("ok").Inc()
	return Result{
		Region:   region,
		Analysis: narrative,
		Records:  filled,
		VegaSpec: spec,
	}, nil
}

// dateWindow returns the compact start/end dates covering the lookback
// window, evaluated in JST to match the provider's timestamps.
func (s *service) dateWindow() (string, string) {
	now := s.clock.Now().In(s.timezone)
	end := now.Format("20060102")
	start := now.AddDate(0, 0, -s.cfg.WindowDays).Format("20060102")
	return start, end
}

func validate(req Request) error {
	bounds, ok := periodRanges[req.PeriodType]
	if !ok || req.PeriodValue < bounds[0] || req.PeriodValue > bounds[1] {
		return apperrors.Wrap("invalid_input", "症状継続期間の入力が不正です", nil)
	}

	answers := map[string]string{
		"diagnosed": req.Diagnosed,
		"fever":     req.Fever,
		"facePain":  req.FacePain,
		"eyeItch":   req.EyeItch,
		"nasal":     req.Nasal,
		"cough":     req.Cough,
		"sneeze":    req.Sneeze,
		"outdoor":   req.Outdoor,
	}
	for key, answer := range answers {
		if answer != "yes" && answer != "no" {
			return apperrors.Wrap("invalid_input", "症状回答の入力が不正です", fmt.Errorf("answer %q for %s", answer, key))
		}
	}
	return nil
}
