package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/badu/httpd/internal/reqmsg"
)

func TestSerialize_StatusLineHeadersBlankLineBody(t *testing.T) {
	resp := &reqmsg.Response{
		Protocol:   "HTTP/1.1",
		StatusCode: reqmsg.StatusOK,
		Body:       []byte("hi"),
	}
	resp.Headers.Add(reqmsg.HeaderContentType, "text/plain")
	resp.Headers.Add(reqmsg.HeaderContentLength, "2")

	got := Serialize(resp)

	want := "HTTP/1.1 200 Ok\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Length: 2\r\n" +
		"\r\n" +
		"hi"
	assert.Equal(t, want, string(got))
}

func TestSerialize_NoHeadersStillEmitsBlankLineSeparator(t *testing.T) {
	resp := &reqmsg.Response{Protocol: "HTTP/1.1", StatusCode: reqmsg.StatusNotFound}

	got := Serialize(resp)

	assert.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", string(got))
}
