package worker

import (
	"errors"
	"net"
	"time"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/parser"
)

// drainDeadline bounds the "non-blocking" continuation reads once the
// first PageSize-sized read already filled the buffer. mu-httpd's
// request_read (src/request.c) switches to MSG_DONTWAIT for those
// follow-up recv() calls; net.Conn has no non-blocking read mode, so a
// short deadline stands in for it — spec §9 flags this exact pattern
// ("blocking read then a non-blocking drain") as a known limitation that
// can truncate a slow client, carried forward here for fidelity rather
// than fixed, per the spec's own framing of it as a documented
// weakness, not a correctness bug to silently redesign.
const drainDeadline = 50 * time.Millisecond

// readRequest drains conn into a single buffer, growing by
// config.PageSize while each read fills the buffer, up to
// config.MaxRequestSize. Grounded on mu-httpd's request_read.
func readRequest(conn net.Conn) ([]byte, parser.Error) {
	buf := make([]byte, 0, config.PageSize)
	chunk := make([]byte, config.PageSize)

	n, err := conn.Read(chunk)
	if n > 0 {
		buf = append(buf, chunk[:n]...)
	}
	if err != nil && n == 0 {
		return buf, parser.OK
	}

	for n == config.PageSize {
		if len(buf)+config.PageSize > config.MaxRequestSize {
			return buf, parser.RequestTooLong
		}
		conn.SetReadDeadline(time.Now().Add(drainDeadline))
		n, err = conn.Read(chunk)
		conn.SetReadDeadline(time.Time{})
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			break
		}
	}

	return buf, parser.OK
}
