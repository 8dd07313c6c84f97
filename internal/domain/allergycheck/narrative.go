package allergycheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/pollen-advisor/pkg/errors"
)

// symptomAnswers fixes the serialization order of the questionnaire inside
// the prompt.
type symptomAnswers struct {
	Diagnosed string `json:"diagnosed"`
	Fever     string `json:"fever"`
	FacePain  string `json:"facePain"`
	EyeItch   string `json:"eyeItch"`
	Nasal     string `json:"nasal"`
	Cough     string `json:"cough"`
	Sneeze    string `json:"sneeze"`
	Outdoor   string `json:"outdoor"`
}

// assessNarrative asks the model for the likelihood narrative over the
// analysis view. The text is the primary deliverable of a request, so a
// provider failure here is fatal and surfaces to the caller.
func (s *service) assessNarrative(ctx context.Context, req Request, analysis []AnalysisPoint) (string, error) {
	prompt := buildNarrativePrompt(req, analysis)

	completion, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", apperrors.Wrap("llm_error", "解析リクエストに失敗しました", err)
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.Wrap("llm_error", "解析結果が空でした", nil)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func buildNarrativePrompt(req Request, analysis []AnalysisPoint) string {
	series, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		series = []byte("[]")
	}
	answers, err := json.MarshalIndent(symptomAnswers{
		Diagnosed: req.Diagnosed,
		Fever:     req.Fever,
		FacePain:  req.FacePain,
		EyeItch:   req.EyeItch,
		Nasal:     req.Nasal,
		Cough:     req.Cough,
		Sneeze:    req.Sneeze,
		Outdoor:   req.Outdoor,
	}, "", "  ")
	if err != nil {
		answers = []byte("{}")
	}

	return fmt.Sprintf(`過去1週間の花粉飛散量とユーザーの症状回答をもとに、花粉症とどの程度疑われるかを日本語で簡潔にまとめてください。
【症状期間】
症状は%d%s続いています。

【花粉データ】
%s

【症状回答】
%s

ただし、以下の条件・考え方を守ってください。
・回答の最初に「あなたの花粉症度は〇〇です。」と言って、「〇〇」には0から100の数字を入れてください。花粉症が原因のときは大きい数字、風邪・副鼻腔炎が原因のときは小さい数字を入れてください。
・次に最も疑われる原因を「あなたの症状で最も疑われる原因は、（花粉症・風邪・副鼻腔炎）と考えられます。」と言ってください。
・次にスギやヒノキなど、その時期に疑われるアレルゲンを示してください。
・花粉データは「2025-07-10T00:00:00+09:00: 1」のようになっており、「2025-07-10T00:00:00+09:00」が時間、「1」が花粉飛散量（花粉の個数/cm^2）です。
・症状期間が長いほど花粉症と考えられ、2週間を超える場合は風邪ではないと考えられます。
・花粉症と診断されている場合、されてない場合に比べて、花粉症が原因である可能性が高いと言えます。
・目のかゆみがある場合、花粉症と考えられます。
・一番最後の回答は、屋内にいる時よりも外にいる時に症状を感じるかどうかの回答です。そう感じない場合はいいえと答えています。
・屋外の方が症状を強く感じる場合、花粉症と考えられます。
・くしゃみがよく出る場合、副鼻腔炎ではないと考えられます。
・発熱している場合、風邪と考えられますが、目や頬の奥が痛い場合には、副鼻腔炎が考えられるため、花粉症ではないと言い切れません。
・目のかゆみがなくて、鼻水も出ないのに咳が出る場合、風邪と考えられます。
`, req.PeriodValue, periodLabels[req.PeriodType], series, answers)
}
