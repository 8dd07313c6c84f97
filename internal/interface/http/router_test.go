package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
	"github.com/yanqian/pollen-advisor/internal/infra/config"
	apperrors "github.com/yanqian/pollen-advisor/pkg/errors"
)

const validBody = `{
	"lat": 35.0, "lng": 135.0,
	"periodType": "week", "periodValue": 2,
	"diagnosed": "yes", "fever": "no", "facePain": "no", "eyeItch": "yes",
	"nasal": "yes", "cough": "no", "sneeze": "yes", "outdoor": "yes"
}`

func TestRouter_LocateSuccess(t *testing.T) {
	three := 3.0
	result := allergycheck.Result{
		Region:   allergycheck.Region{City: "京都市", Ward: "北区", Code: "261009"},
		Analysis: "あなたの花粉症度は80です。",
		Records:  []allergycheck.SeriesPoint{{Date: "2025-07-10T00:00:00+09:00", Pollen: &three}},
		VegaSpec: json.RawMessage(`{"mark":"line"}`),
	}
	svc := &stubCheckService{
		checkFn: func(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error) {
			require.Equal(t, 35.0, req.Lat)
			require.Equal(t, "week", req.PeriodType)
			return result, nil
		},
	}

	recorder := performRequest("/api/locate", validBody, newRouterUnderTest(svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.JSONEq(t, `"京都市"`, string(got["city"]))
	require.JSONEq(t, `"北区"`, string(got["ward"]))
	require.JSONEq(t, `"261009"`, string(got["citycode"]))
	require.JSONEq(t, `"あなたの花粉症度は80です。"`, string(got["analysis"]))
	require.JSONEq(t, `[{"date":"2025-07-10T00:00:00+09:00","pollen":3}]`, string(got["records"]))
	require.JSONEq(t, `{"mark":"line"}`, string(got["vegaSpec"]))
}

func TestRouter_LocateRegionMiss(t *testing.T) {
	svc := &stubCheckService{
		checkFn: func(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error) {
			return allergycheck.Result{Message: "行政区域コードが見つかりませんでした"}, nil
		},
	}

	recorder := performRequest("/api/locate", validBody, newRouterUnderTest(svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	require.JSONEq(t, `{
		"city": null, "ward": null, "citycode": null,
		"pollen": [],
		"message": "行政区域コードが見つかりませんでした"
	}`, body)
}

func TestRouter_LocateInvalidDuration(t *testing.T) {
	svc := &stubCheckService{
		checkFn: func(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error) {
			return allergycheck.Result{}, apperrors.Wrap("invalid_input", "症状継続期間の入力が不正です", nil)
		},
	}

	body := `{"lat":35.0,"lng":135.0,"periodType":"week","periodValue":5,
		"diagnosed":"yes","fever":"no","facePain":"no","eyeItch":"yes",
		"nasal":"yes","cough":"no","sneeze":"yes","outdoor":"yes"}`
	recorder := performRequest("/api/locate", body, newRouterUnderTest(svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "症状継続期間の入力が不正です", got["error"])
	require.Equal(t, "week", got["periodType"])
	require.Equal(t, 5.0, got["periodValue"])
}

func TestRouter_LocateMalformedJSON(t *testing.T) {
	svc := &stubCheckService{}

	recorder := performRequest("/api/locate", `{"lat": "north"}`, newRouterUnderTest(svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.NotEmpty(t, got["error"])
}

func TestRouter_LocateInternalError(t *testing.T) {
	svc := &stubCheckService{
		checkFn: func(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error) {
			return allergycheck.Result{}, apperrors.Wrap("llm_error", "解析リクエストに失敗しました", errors.New("provider down"))
		},
	}

	recorder := performRequest("/api/locate", validBody, newRouterUnderTest(svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "サーバー内部エラー", got["error"])
	require.Contains(t, got["detail"], "provider down")
}

func TestRouter_Healthz(t *testing.T) {
	server := newRouterUnderTest(&stubCheckService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	server := newRouterUnderTest(&stubCheckService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, "trace-123", rec.Header().Get(requestIDHeader))
}

func newRouterUnderTest(svc allergycheck.Service) *http.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	handler := NewHandler(svc, logger)
	return NewRouter(cfg, handler)
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

type stubCheckService struct {
	checkFn func(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error)
}

func (s *stubCheckService) Check(ctx context.Context, req allergycheck.Request) (allergycheck.Result, error) {
	if s.checkFn == nil {
		return allergycheck.Result{}, nil
	}
	return s.checkFn(ctx, req)
}
