package allergycheck

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
)

// fillGaps asks the model to predict values for the nil entries of the
// display series. Imputation is strictly best effort: any provider or parse
// failure returns the original series unchanged. When the model answers with
// a clean series it is re-sorted chronologically, because the model is not
// guaranteed to preserve input order.
func (s *service) fillGaps(ctx context.Context, display []SeriesPoint) []SeriesPoint {
	if !hasGaps(display) {
		return display
	}

	completion, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: buildImputePrompt(display)},
		},
	})
	if err != nil {
		s.logger.Warn("imputation request failed, keeping gaps", "error", err)
		s.metrics.FallbacksTotal.WithLabelValues("impute").Inc()
		return display
	}
	if len(completion.Choices) == 0 {
		s.logger.Warn("imputation returned no choices, keeping gaps")
		s.metrics.FallbacksTotal.WithLabelValues("impute").Inc()
		return display
	}

	filled, err := parseImputedSeries(completion.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("imputation output unparseable, keeping gaps", "error", err)
		s.metrics.FallbacksTotal.WithLabelValues("impute").Inc()
		return display
	}
	return filled
}

func buildImputePrompt(display []SeriesPoint) string {
	payload, err := json.Marshal(display)
	if err != nil {
		payload = []byte("[]")
	}
	return fmt.Sprintf(`以下は1時間ごとの花粉飛散量の時系列データです。"pollen" が null の箇所は欠測です。前後の値と時間帯の傾向から欠測値を推定し、全時刻の値を埋めた完全な時系列を返してください。

%s

出力は次の形式のJSON配列のみとし、説明文やコードブロックは一切付けないでください。
[{"date":"2025-07-10T00:00:00+09:00","pollen":1}]`, payload)
}

// parseImputedSeries defensively parses the model output and restores
// chronological order. Every record must carry a parseable RFC3339 timestamp
// and a numeric value, otherwise the whole response is rejected.
func parseImputedSeries(raw string) ([]SeriesPoint, error) {
	var wire []struct {
		Date   string   `json:"date"`
		Pollen *float64 `json:"pollen"`
	}
	if err := parseStructured(raw, &wire); err != nil {
		return nil, err
	}
	if len(wire) == 0 {
		return nil, fmt.Errorf("imputed series is empty")
	}

	type stamped struct {
		at    time.Time
		point SeriesPoint
	}
	points := make([]stamped, 0, len(wire))
	for _, rec := range wire {
		at, err := time.Parse(time.RFC3339, rec.Date)
		if err != nil {
			return nil, fmt.Errorf("imputed timestamp %q: %w", rec.Date, err)
		}
		if rec.Pollen == nil {
			return nil, fmt.Errorf("imputed value missing at %s", rec.Date)
		}
		points = append(points, stamped{at: at, point: SeriesPoint{Date: rec.Date, Pollen: rec.Pollen}})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].at.Before(points[j].at)
	})

	out := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, p.point)
	}
	return out, nil
}
