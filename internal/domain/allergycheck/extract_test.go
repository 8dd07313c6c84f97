package allergycheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractStructuredFencedObject(t *testing.T) {
	payload, err := extractStructured("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 1}`, string(payload))
}

func TestExtractStructuredArrayInsideProse(t *testing.T) {
	raw := "推定結果は以下の通りです。\n[{\"date\":\"2025-06-27T00:00:00+09:00\",\"pollen\":2}]\n以上です。"
	payload, err := extractStructured(raw)
	require.NoError(t, err)
	require.JSONEq(t, `[{"date":"2025-06-27T00:00:00+09:00","pollen":2}]`, string(payload))
}

func TestExtractStructuredPlainProse(t *testing.T) {
	_, err := extractStructured("データが不足しているため推定できません。")
	require.ErrorIs(t, err, errNoStructuredPayload)
}

func TestExtractStructuredUnbalanced(t *testing.T) {
	_, err := extractStructured("{\"a\": 1")
	require.ErrorIs(t, err, errNoStructuredPayload)
}

func TestParseStructuredMalformedPayload(t *testing.T) {
	var out map[string]any
	err := parseStructured("{\"a\": } trailing", &out)
	require.Error(t, err)
}

func TestParseStructuredIntoSlice(t *testing.T) {
	var out []struct {
		Date string `json:"date"`
	}
	err := parseStructured("前置き [ {\"date\": \"x\"} ] 後置き", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "x", out[0].Date)
}
