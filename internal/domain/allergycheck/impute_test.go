package allergycheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func gappySeries() []SeriesPoint {
	three := 3.0
	return []SeriesPoint{
		{Date: "2025-07-10T00:00:00+09:00"},
		{Date: "2025-07-10T01:00:00+09:00", Pollen: &three},
	}
}

func TestFillGapsCompleteSeriesSkipsProvider(t *testing.T) {
	chatStub := &stubChatClient{}
	svc := newTestService(chatStub, &stubResolver{}, &stubPollenClient{})

	one := 1.0
	series := []SeriesPoint{{Date: "2025-07-10T00:00:00+09:00", Pollen: &one}}
	got := svc.fillGaps(context.Background(), series)

	require.Equal(t, series, got)
	require.Zero(t, chatStub.calls)
}

func TestFillGapsProseResponseKeepsOriginal(t *testing.T) {
	chatStub := &stubChatClient{responses: []string{"データが不足しているため推定できません。"}}
	svc := newTestService(chatStub, &stubResolver{}, &stubPollenClient{})

	series := gappySeries()
	got := svc.fillGaps(context.Background(), series)

	require.Equal(t, series, got)
	require.Equal(t, 1, chatStub.calls)
}

func TestFillGapsProviderErrorKeepsOriginal(t *testing.T) {
	chatStub := &stubChatClient{err: errors.New("provider down")}
	svc := newTestService(chatStub, &stubResolver{}, &stubPollenClient{})

	series := gappySeries()
	got := svc.fillGaps(context.Background(), series)

	require.Equal(t, series, got)
}

func TestFillGapsSortsOutOfOrderResponse(t *testing.T) {
	chatStub := &stubChatClient{responses: []string{
		`[{"date":"2025-07-10T01:00:00+09:00","pollen":3},{"date":"2025-07-10T00:00:00+09:00","pollen":2}]`,
	}}
	svc := newTestService(chatStub, &stubResolver{}, &stubPollenClient{})

	got := svc.fillGaps(context.Background(), gappySeries())

	require.Len(t, got, 2)
	require.Equal(t, "2025-07-10T00:00:00+09:00", got[0].Date)
	require.Equal(t, 2.0, *got[0].Pollen)
	require.Equal(t, "2025-07-10T01:00:00+09:00", got[1].Date)
	require.Equal(t, 3.0, *got[1].Pollen)
}

func TestFillGapsFencedResponse(t *testing.T) {
	chatStub := &stubChatClient{responses: []string{
		"```json\n[{\"date\":\"2025-07-10T00:00:00+09:00\",\"pollen\":2},{\"date\":\"2025-07-10T01:00:00+09:00\",\"pollen\":3}]\n```",
	}}
	svc := newTestService(chatStub, &stubResolver{}, &stubPollenClient{})

	got := svc.fillGaps(context.Background(), gappySeries())
	require.Len(t, got, 2)
	require.Equal(t, 2.0, *got[0].Pollen)
}

func TestParseImputedSeriesRejectsNullValue(t *testing.T) {
	_, err := parseImputedSeries(`[{"date":"2025-07-10T00:00:00+09:00","pollen":null}]`)
	require.Error(t, err)
}

func TestParseImputedSeriesRejectsBadTimestamp(t *testing.T) {
	_, err := parseImputedSeries(`[{"date":"July 10th","pollen":2}]`)
	require.Error(t, err)
}

func TestParseImputedSeriesRejectsEmpty(t *testing.T) {
	_, err := parseImputedSeries(`[]`)
	require.Error(t, err)
}
