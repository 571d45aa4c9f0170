package request_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albumshare/mbimport/request"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestErrorOKStatuses(t *testing.T) {
	assert.NoError(t, request.Error(response(200, "")))
	assert.NoError(t, request.Error(response(201, "")))
	assert.NoError(t, request.Error(response(204, "")))
}

func TestErrorIncludesBody(t *testing.T) {
	err := request.Error(response(503, "upstream down"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", request.SnippetLen*3)
	got := request.Snippet(strings.NewReader(long))
	assert.Len(t, got, request.SnippetLen)
}
