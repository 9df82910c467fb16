// Package parser implements C1, the HttpParser: a single-pass tokenizer
// that turns a raw request buffer into a structured reqmsg.Request.
//
// Grounded on mu-httpd's src/http.c (http_request_parse and its
// per-field sub-parsers) and src/request.c's read loop for the
// MAX_REQUEST_SIZE/REQUEST_TOO_LONG contract. The original mutates one
// heap buffer in place and aliases C strings into it; here the buffer is
// a []byte, Body is a sub-slice of it, and every other field is a fresh
// decoded string, since Go strings
// are already immutable, read-only views — there is no equivalent
// allocator-churn concern to dodge with pointer aliasing.
package parser

import (
	"bytes"

	"github.com/badu/httpd/internal/reqmsg"
)

const sp = ' '

// Parse scans buf according to the grammar in spec §4.1 and returns the
// structured request together with the sticky error code.
//
// preErr lets an error detected upstream (e.g. REQUEST_TOO_LONG from the
// worker's read phase) short-circuit parsing entirely, matching the
// original's sticky-error propagation across request_read and
// http_request_parse.
func Parse(buf []byte, maxURLSize int, preErr Error) (*reqmsg.Request, Error) {
	req := &reqmsg.Request{}
	if preErr != OK {
		return req, preErr
	}

	pos := 0
	errCode := OK

	methodTok, n, found := scanToken(buf[pos:], sp)
	if !found {
		return req, MethodInvalid
	}
	pos += n
	req.Method = reqmsg.ParseMethod(string(methodTok))
	if req.Method == reqmsg.Unknown {
		errCode = MethodInvalid
	}

	if errCode == OK {
		targetTok, n2, found2 := scanToken(buf[pos:], sp)
		if !found2 {
			return req, URIEmpty
		}
		pos += n2
		switch {
		case len(targetTok) == 0:
			errCode = URIEmpty
		case len(targetTok) > maxURLSize:
			errCode = URITooLong
		default:
			rawPath, rawQuery := splitTarget(targetTok)
			req.URI = reqmsg.URI{
				Path:  percentDecode(rawPath),
				Query: percentDecode(rawQuery),
			}
		}
	}

	if errCode == OK {
		protoTok, n3, found3 := scanLine(buf[pos:])
		if !found3 {
			return req, ProtocolInvalid
		}
		pos += n3
		req.Protocol = string(protoTok)
		if req.Protocol != "HTTP/1.1" {
			errCode = ProtocolInvalid
		}
	}

	if errCode == OK {
		headers, consumed, ok := parseHeaders(buf[pos:])
		if !ok {
			return req, HeadersEmpty
		}
		pos += consumed
		req.Headers = headers
	}

	if pos <= len(buf) {
		req.Body = buf[pos:]
	}

	return req, errCode
}

// scanToken returns the bytes up to (not including) the first occurrence
// of delim, and the number of bytes consumed including delim itself.
func scanToken(buf []byte, delim byte) (tok []byte, consumed int, found bool) {
	idx := bytes.IndexByte(buf, delim)
	if idx < 0 {
		return nil, 0, false
	}
	return buf[:idx], idx + 1, true
}

// scanLine returns the bytes up to (not including) the next CRLF, and
// the number of bytes consumed including the CRLF.
func scanLine(buf []byte) (line []byte, consumed int, found bool) {
	idx := bytes.Index(buf, []byte("\r\n"))
	if idx < 0 {
		return nil, 0, false
	}
	return buf[:idx], idx + 2, true
}

// splitTarget splits a request-target at its first '?' into path and
// query; query is empty when there is none.
func splitTarget(target []byte) (path, query []byte) {
	if idx := bytes.IndexByte(target, '?'); idx >= 0 {
		return target[:idx], target[idx+1:]
	}
	return target, nil
}

// parseHeaders reads zero or more "key: value" lines terminated by CRLF,
// stopping at the blank-line CRLF that ends the header block. Returns
// ok=false when zero headers were present (spec: HEADERS_EMPTY).
func parseHeaders(buf []byte) (headers reqmsg.Header, consumed int, ok bool) {
	pos := 0
	for {
		line, n, found := scanLine(buf[pos:])
		if !found {
			return nil, 0, len(headers) > 0
		}
		pos += n
		if len(line) == 0 {
			// blank line: end of header block
			return headers, pos, len(headers) > 0
		}
		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			// malformed header line; skip it rather than abort the
			// whole request, matching the original's tolerant sscanf-based
			// field-by-field parsing.
			continue
		}
		key := string(line[:idx])
		value := line[idx+1:]
		// "skip exactly one SP" per spec §4.1 step 5.
		if len(value) > 0 && value[0] == sp {
			value = value[1:]
		}
		headers.Add(key, string(value))
	}
}

// percentDecode decodes %HH escapes into their byte value, passing
// through any other byte (including a malformed %-sequence) unchanged.
// Grounded on http_request_parse_uri_decode_special (src/http.c).
func percentDecode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]) {
			out = append(out, hexByte(raw[i+1], raw[i+2]))
			i += 2
			continue
		}
		out = append(out, raw[i])
	}
	return string(out)
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}
