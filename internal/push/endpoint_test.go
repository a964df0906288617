package push

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performSend(t *testing.T, sender Sender, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	endpoint := NewEndpoint(sender)
	return rec, endpoint.Send(c)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) sendErrorBody {
	t.Helper()
	var body sendErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendRejectsMissingTo(t *testing.T) {
	sender := &fakeSender{}
	rec, err := performSend(t, sender, `{"notification":{"title":"t","body":"b"}}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-argument", decodeError(t, rec).Code)
	assert.Empty(t, sender.sent(), "validation errors must have no side effect")
}

func TestSendRejectsMissingNotification(t *testing.T) {
	sender := &fakeSender{}
	rec, err := performSend(t, sender, `{"to":"tok"}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-argument", decodeError(t, rec).Code)
	assert.Empty(t, sender.sent())
}

func TestSendRejectsMissingTitleOrBody(t *testing.T) {
	sender := &fakeSender{}
	for _, body := range []string{
		`{"to":"tok","notification":{"body":"b"}}`,
		`{"to":"tok","notification":{"title":"t"}}`,
	} {
		rec, err := performSend(t, sender, body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid-argument", decodeError(t, rec).Code)
	}
	assert.Empty(t, sender.sent())
}

func TestSendCoercesDataPayloadToStrings(t *testing.T) {
	sender := &fakeSender{}
	rec, err := performSend(t, sender,
		`{"to":"tok","notification":{"title":"t","body":"b"},"dataPayload":{"videoId":"v1","count":3,"flag":true}}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	calls := sender.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "v1", calls[0].Data["videoId"])
	assert.Equal(t, "3", calls[0].Data["count"])
	assert.Equal(t, "true", calls[0].Data["flag"])

	var resp struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.MessageID)
}

func TestSendDefaultsPriority(t *testing.T) {
	sender := &fakeSender{}
	rec, err := performSend(t, sender, `{"to":"tok","notification":{"title":"t","body":"b"}}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	calls := sender.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "high", calls[0].Priority)
}

func TestSendProviderFailureReturnsInternal(t *testing.T) {
	sender := &fakeSender{err: fmt.Errorf("provider unreachable")}
	rec, err := performSend(t, sender, `{"to":"tok","notification":{"title":"t","body":"b"}}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", decodeError(t, rec).Code)
	assert.Len(t, sender.sent(), 1, "no automatic retry")
}
