package request

import (
	"fmt"
	"io"
	"net/http"
)

// SnippetLen bounds how much of an error response body is kept.
const SnippetLen = 500

// Error checks the given http response for an error code, and, if one is
// present, reads the start of the body and returns a friendly error.
func Error(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("http status code %d:\n%s", resp.StatusCode, Snippet(resp.Body))
}

// Snippet reads up to SnippetLen bytes from r, for quoting a response body in
// an error message.
func Snippet(r io.Reader) string {
	bs, err := io.ReadAll(io.LimitReader(r, SnippetLen))
	if err != nil {
		return fmt.Sprintf("(unreadable body: %v)", err)
	}
	return string(bs)
}
