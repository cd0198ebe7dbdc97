package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/handler"
	"github.com/levinOo/go-state-mirror/internal/repository"
)

func TestServer(t *testing.T) {
	type want struct {
		code int
		body string
	}

	tests := []struct {
		name   string
		url    string
		method string
		want   want
	}{
		{
			name:   "UpdateMetricHandler / Correct value",
			url:    "/metrics/RandomValue/42",
			method: http.MethodPost,
			want:   want{code: http.StatusOK, body: "{\"status\":\"ok\"}\n"},
		},
		{
			name:   "UpdateMetricHandler / Incorrect type of value",
			url:    "/metrics/RandomValue/hello",
			method: http.MethodPost,
			want:   want{code: http.StatusBadRequest},
		},
		{
			name:   "UpdateMetricHandler / Float value",
			url:    "/metrics/Alloc/43.54",
			method: http.MethodPost,
			want:   want{code: http.StatusBadRequest},
		},
		{
			name:   "ToggleFlagHandler / Correct value",
			url:    "/flags/Ready/true",
			method: http.MethodPost,
			want:   want{code: http.StatusOK, body: "{\"status\":\"ok\"}\n"},
		},
		{
			name:   "ToggleFlagHandler / Incorrect value",
			url:    "/flags/Ready/yes",
			method: http.MethodPost,
			want:   want{code: http.StatusBadRequest},
		},
		{
			name:   "GetMetricHandler / Existing metric",
			url:    "/metrics/Alloc",
			method: http.MethodGet,
			want:   want{code: http.StatusOK, body: "{\"key\":\"Alloc\",\"value\":7}\n"},
		},
		{
			name:   "GetMetricHandler / Missing metric",
			url:    "/metrics/Allloc",
			method: http.MethodGet,
			want:   want{code: http.StatusNotFound},
		},
		{
			name:   "Unknown route",
			url:    "/value/gauge/Alloc",
			method: http.MethodGet,
			want:   want{code: http.StatusNotFound},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engine.New()
			if err := e.UpdateMetric("Alloc", 7); err != nil {
				t.Fatal(err)
			}
			r := handler.New(e, repository.NewMemStorage(), nil).Router()

			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want.code {
				t.Errorf("expected status %d, got %d (body %q)", tt.want.code, rec.Code, rec.Body.String())
			}
			if tt.want.body != "" && rec.Body.String() != tt.want.body {
				t.Errorf("expected body %q, got %q", tt.want.body, rec.Body.String())
			}
		})
	}
}
