package responder

import (
	"bytes"
	"fmt"

	"github.com/badu/httpd/internal/reqmsg"
)

// Serialize renders resp as the wire bytes of spec §4.3's serialisation
// rule: status line, each header in order, the CRLF separator, then the
// body.
func Serialize(resp *reqmsg.Response) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d %s\r\n", resp.Protocol, int(resp.StatusCode), reqmsg.ReasonPhrase(resp.StatusCode))
	for _, h := range resp.Headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Key, h.Value)
	}
	buf.WriteString("\r\n")
	buf.Write(resp.Body)
	return buf.Bytes()
}
