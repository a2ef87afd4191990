// SPDX-License-Identifier: MIT

package problem

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/model"
)

func TestPointer(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"m5Url", "/m5Url"},
		{"consumptionReportingUnits[2].duration", "/consumptionReportingUnits/2/duration"},
		{"serviceList[0].entryPoints[1].profiles[3]", "/serviceList/0/entryPoints/1/profiles/3"},
		{"streamingAccess.entryPoints[0]", "/streamingAccess/entryPoints/0"},
		{"a/b", "/a~1b"},
		{"til~de", "/til~0de"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Pointer(tt.path))
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		kind       model.Kind
		wantStatus int
		wantCause  Cause
		wantParam  string
	}{
		{
			name:       "syntax",
			kind:       model.KindM8,
			data:       `{"m5Url":`,
			wantStatus: http.StatusBadRequest,
			wantCause:  CauseInvalidMsgFormat,
		},
		{
			name:       "missing mandatory",
			kind:       model.KindM8,
			data:       `{"serviceList":[]}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  CauseMandatoryIEMissing,
			wantParam:  "/m5Url",
		},
		{
			name:       "mandatory incorrect",
			kind:       model.KindConsumptionReporting,
			data:       `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","startTime":"2024-01-01T00:00:00Z","duration":-1}]}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  CauseMandatoryIEIncorrect,
			wantParam:  "/consumptionReportingUnits/0/duration",
		},
		{
			name:       "optional incorrect",
			kind:       model.KindServiceAccessInformation,
			data:       `{"provisioningSessionId":"p","provisioningSessionType":"DOWNLINK","streamingAccess":{"entryPoints":[{"locator":"https://a/b.mpd","contentType":"application/dash+xml","profiles":"x"}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  CauseOptionalIEIncorrect,
			wantParam:  "/streamingAccess/entryPoints/0/profiles",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.Decode(tt.kind, []byte(tt.data))
			require.Error(t, err)

			d := FromError(err)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantCause, d.Cause)
			assert.NotEmpty(t, d.Detail)
			if tt.wantParam == "" {
				assert.Empty(t, d.InvalidParams)
				return
			}
			require.Len(t, d.InvalidParams, 1)
			assert.Equal(t, tt.wantParam, d.InvalidParams[0].Param)
		})
	}
}

func TestFromErrorOther(t *testing.T) {
	d := FromError(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, d.Status)
	assert.Equal(t, CauseSystemFailure, d.Cause)

	assert.Equal(t, Details{}, FromError(nil))
}

func TestFromErrorWrapped(t *testing.T) {
	_, err := model.DecodeM8Model([]byte(`[]`))
	require.Error(t, err)

	d := FromError(errors.Join(errors.New("load m8"), err))
	assert.Equal(t, http.StatusBadRequest, d.Status)
	assert.Equal(t, CauseMandatoryIEIncorrect, d.Cause)
	require.Len(t, d.InvalidParams, 1)
	assert.Equal(t, "", d.InvalidParams[0].Param)
	assert.Equal(t, string(model.ReasonWrongType), d.InvalidParams[0].Reason)
}

func TestWrite(t *testing.T) {
	_, err := model.DecodeM8Model([]byte(`{"m5Url":"not a uri","serviceList":[]}`))
	require.Error(t, err)

	req := httptest.NewRequest(http.MethodPost, "/m8", nil)
	req = req.WithContext(log.ContextWithRequestID(context.Background(), "req-42"))
	rec := httptest.NewRecorder()

	Write(rec, req, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	var got Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "/m8", got.Instance)
	assert.Equal(t, CauseMandatoryIEIncorrect, got.Cause)
	assert.Equal(t, []InvalidParam{{Param: "/m5Url", Reason: "malformed-value"}}, got.InvalidParams)
}

func TestWriteNilError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		Write(rec, httptest.NewRequest(http.MethodGet, "/x", nil), nil)
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var got Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, CauseSystemFailure, got.Cause)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
}
