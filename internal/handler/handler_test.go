package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	h, err := NewHandler(&config.Config{}, nil, nil, nil)
	require.NoError(t, err)
	return h
}

func TestNewHandlerRegisterRoutes(t *testing.T) {
	h := newTestHandler(t)
	require.NotNil(t, h.Mux)
	require.NotPanics(t, func() { h.RegisterRoutes() })
}

func TestResponseEnvelope(t *testing.T) {
	h := newTestHandler(t)

	t.Run("业务失败返回 200 且 success=false", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		h.errorResponse(rec, req, "该船舶还没有排班表")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Success)
		require.Equal(t, "该船舶还没有排班表", resp.Message)
		require.Nil(t, resp.Data)
	})

	t.Run("成功响应携带数据", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		h.successResponse(rec, req, "获取船舶列表成功", []string{"远洋一号"})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Equal(t, "获取船舶列表成功", resp.Message)
	})
}
