package allergycheck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
)

// buildChartSpec asks the model for a Vega-Lite document rendering the
// (possibly imputed) series. Like imputation this is best effort: on any
// failure the hardcoded default spec embedding the series as literal data is
// returned, so the client always receives something renderable.
func (s *service) buildChartSpec(ctx context.Context, series []SeriesPoint) json.RawMessage {
	completion, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: buildChartPrompt(series)},
		},
	})
	if err != nil {
		s.logger.Warn("chart spec request failed, using default spec", "error", err)
		s.metrics.FallbacksTotal.WithLabelValues("chart").Inc()
		return defaultChartSpec(series)
	}
	if len(completion.Choices) == 0 {
		s.logger.Warn("chart spec returned no choices, using default spec")
		s.metrics.FallbacksTotal.WithLabelValues("chart").Inc()
		return defaultChartSpec(series)
	}

	spec, err := parseChartSpec(completion.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("chart spec unparseable, using default spec", "error", err)
		s.metrics.FallbacksTotal.WithLabelValues("chart").Inc()
		return defaultChartSpec(series)
	}
	return spec
}

func buildChartPrompt(series []SeriesPoint) string {
	payload, err := json.Marshal(series)
	if err != nil {
		payload = []byte("[]")
	}
	return fmt.Sprintf(`以下の花粉飛散量の時系列データを折れ線グラフとして描画するVega-Lite仕様を作成してください。x軸は "date"（temporal）、y軸は "pollen"（quantitative）とし、データは "data"."values" にそのまま埋め込んでください。

%s

出力はVega-Lite仕様のJSONオブジェクトのみとし、説明文やコードブロックは一切付けないでください。`, payload)
}

// parseChartSpec validates that the output is a JSON object before passing
// it through opaquely.
func parseChartSpec(raw string) (json.RawMessage, error) {
	payload, err := extractStructured(raw)
	if err != nil {
		return nil, err
	}
	var probe map[string]any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("decode chart spec: %w", err)
	}
	return json.RawMessage(payload), nil
}

// defaultChartSpec is the designated fallback: a minimal temporal/quantitative
// line chart with the series inlined. It renders even when the series still
// contains nulls.
func defaultChartSpec(series []SeriesPoint) json.RawMessage {
	if series == nil {
		series = []SeriesPoint{}
	}
	spec := map[string]any{
		"$schema":     "https://vega.github.io/schema/vega-lite/v5.json",
		"description": "花粉飛散量の推移",
		"width":       "container",
		"data":        map[string]any{"values": series},
		"mark":        map[string]any{"type": "line", "point": true},
		"encoding": map[string]any{
			"x": map[string]any{"field": "date", "type": "temporal", "title": "日時"},
			"y": map[string]any{"field": "pollen", "type": "quantitative", "title": "花粉飛散量"},
		},
	}
	payload, err := json.Marshal(spec)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return payload
}
