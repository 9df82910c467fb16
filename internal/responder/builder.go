// Package responder implements C3, the ResponseBuilder: it turns a
// resolver.Artifact into a complete reqmsg.Response, and serialises a
// Response into wire bytes.
//
// Grounded on mu-httpd's src/response.c (response_make_file_view,
// response_make_error_view, response_make_moved_view,
// response_add_common_headers/_file_header) and, for the Go idiom of a
// filesystem-scoped static handler, badu-http/filetransport.
package responder

import (
	"fmt"
	"os"
	"time"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/parser"
	"github.com/badu/httpd/internal/reqmsg"
	"github.com/badu/httpd/internal/resolver"
)

// Build constructs the response for a resolved artifact. now is injected
// for deterministic tests; callers pass time.Now().
func Build(artifact resolver.Artifact, req *reqmsg.Request, cfg config.Config, now time.Time) (*reqmsg.Response, error) {
	switch artifact.Kind {
	case resolver.KindMoved:
		return buildMoved(artifact.Destination, cfg, now), nil
	case resolver.KindFile:
		return buildFileView(reqmsg.StatusOK, artifact.Path, req, cfg, now)
	case resolver.KindDirectory:
		return buildDirectoryView(artifact.Path, req, cfg, now)
	case resolver.KindError:
		return buildErrorView(artifact.ErrorCode, req, cfg, now)
	default:
		return buildErrorView(reqmsg.StatusInternalServerError, req, cfg, now)
	}
}

// BuildForParseError maps a sticky parser.Error onto its response, per
// the table in spec §4.3 / mu-httpd's response_make_error
// (src/response.c).
func BuildForParseError(perr parser.Error, req *reqmsg.Request, cfg config.Config, now time.Time) (*reqmsg.Response, error) {
	var code reqmsg.StatusCode
	switch perr {
	case parser.MethodInvalid:
		code = reqmsg.StatusNotImplemented
	case parser.URIEmpty, parser.URITooLong, parser.RequestTooLong, parser.HeadersEmpty:
		code = reqmsg.StatusBadRequest
	case parser.ProtocolInvalid:
		code = reqmsg.StatusVersionNotSupported
	default:
		code = reqmsg.StatusInternalServerError
	}
	return buildErrorView(code, req, cfg, now)
}

func addCommonHeaders(h *reqmsg.Header, now time.Time) {
	h.Add(reqmsg.HeaderConnection, "close")
	h.Add(reqmsg.HeaderServer, config.ServerBanner)
	h.Add(reqmsg.HeaderDate, now.UTC().Format(reqmsg.TimeFormat))
}

func buildFileView(status reqmsg.StatusCode, filename string, req *reqmsg.Request, cfg config.Config, now time.Time) (*reqmsg.Response, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if status != reqmsg.StatusInternalServerError {
			return buildErrorView(reqmsg.StatusInternalServerError, req, cfg, now)
		}
		return nil, err
	}
	size := len(content)
	if req != nil && req.Method == reqmsg.HEAD {
		content = nil
	}

	resp := &reqmsg.Response{Protocol: "HTTP/1.1", StatusCode: status, Body: content}
	addCommonHeaders(&resp.Headers, now)
	resp.Headers.Add(reqmsg.HeaderContentType, mimeFor(filename))
	resp.Headers.Add(reqmsg.HeaderContentLength, fmt.Sprintf("%d", size))
	return resp, nil
}

func buildErrorView(status reqmsg.StatusCode, req *reqmsg.Request, cfg config.Config, now time.Time) (*reqmsg.Response, error) {
	filename := fmt.Sprintf("%s/%d.html", cfg.TemplateRoot, int(status))
	resp, err := buildFileView(status, filename, req, cfg, now)
	if err != nil {
		// Even the error template is unreadable: fall back to a minimal
		// in-memory body rather than failing the exchange outright
		// (spec §7: "the client always receives a valid HTTP response").
		body := []byte(reqmsg.ReasonPhrase(status))
		resp = &reqmsg.Response{Protocol: "HTTP/1.1", StatusCode: status, Body: body}
		addCommonHeaders(&resp.Headers, now)
		resp.Headers.Add(reqmsg.HeaderContentType, "text/plain")
		resp.Headers.Add(reqmsg.HeaderContentLength, fmt.Sprintf("%d", len(body)))
	}
	return resp, nil
}

func buildMoved(destination string, cfg config.Config, now time.Time) *reqmsg.Response {
	resp := &reqmsg.Response{Protocol: "HTTP/1.1", StatusCode: reqmsg.StatusMovedPermanently}
	addCommonHeaders(&resp.Headers, now)
	resp.Headers.Add(reqmsg.HeaderLocation, destination)
	resp.Headers.Add(reqmsg.HeaderContentLength, "0")
	return resp
}
