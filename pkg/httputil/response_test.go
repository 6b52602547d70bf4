package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskd/pkg/apperr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, []string{"a", "b"}, 2)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
}

func TestWriteDataOmitsCount(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusOK, map[string]string{"k": "v"})

	assert.NotContains(t, rec.Body.String(), "count")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindInvalidOperation, http.StatusBadRequest},
		{apperr.KindUnauthorized, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForKind(tt.kind), tt.kind.String())
	}
}

func TestWriteError(t *testing.T) {
	t.Run("classified error keeps its message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperr.New(apperr.KindNotFound, "project not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "project not found", env.Error)
	})

	t.Run("wrapped classified error keeps kind and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, fmt.Errorf("handler: %w", apperr.New(apperr.KindConflict, "duplicate member")))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "duplicate member", decodeEnvelope(t, rec).Error)
	})

	t.Run("internal errors never leak their cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("pq: connection refused to 10.0.0.3"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "server error", decodeEnvelope(t, rec).Error)
		assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	})
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := BearerToken(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Basic abc")
	_, err = BearerToken(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Bearer taskd_abc")
	token, err := BearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "taskd_abc", token)
}

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	var dest struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(r, &dest))
	assert.Equal(t, "x", dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(r, &dest))
}
