// Package handlerstest holds helpers shared by the handler tests.
package handlerstest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"userdir/internal/http/api"
	"userdir/internal/lib/sl"

	"github.com/stretchr/testify/assert"
)

func NewLogger() *slog.Logger {
	return sl.NewDiscardLogger()
}

func DecodeErrorResponse(t *testing.T, body *bytes.Buffer) api.ErrorResponse {
	t.Helper()

	var resp api.ErrorResponse
	err := json.NewDecoder(body).Decode(&resp)
	assert.NoError(t, err)
	return resp
}
