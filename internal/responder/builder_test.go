package responder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/parser"
	"github.com/badu/httpd/internal/reqmsg"
	"github.com/badu/httpd/internal/resolver"
)

func newTestConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.PublicRoot = filepath.Join(root, "www")
	cfg.TemplateRoot = filepath.Join(root, "default")
	require.NoError(t, os.MkdirAll(cfg.PublicRoot, 0o755))
	require.NoError(t, os.MkdirAll(cfg.TemplateRoot, 0o755))
	for _, code := range []int{200, 301, 400, 404, 500, 501, 505} {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplateRoot, itoa(code)+".html"), []byte("page "+itoa(code)), 0o644))
	}
	return cfg
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

var fixedNow = time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

func TestBuild_File(t *testing.T) {
	cfg := newTestConfig(t)
	path := filepath.Join(cfg.PublicRoot, "hi.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	req := &reqmsg.Request{Method: reqmsg.GET}
	resp, err := Build(resolver.Artifact{Kind: resolver.KindFile, Path: path}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, reqmsg.StatusOK, resp.StatusCode)
	assert.Equal(t, "hi", string(resp.Body))
	assert.Equal(t, "text/plain", resp.Headers.Get(reqmsg.HeaderContentType))
	assert.Equal(t, "2", resp.Headers.Get(reqmsg.HeaderContentLength))
	assert.Equal(t, "close", resp.Headers.Get(reqmsg.HeaderConnection))
	assert.Equal(t, config.ServerBanner, resp.Headers.Get(reqmsg.HeaderServer))
}

func TestBuild_HeadDiscardsBody(t *testing.T) {
	cfg := newTestConfig(t)
	path := filepath.Join(cfg.PublicRoot, "hi.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	req := &reqmsg.Request{Method: reqmsg.HEAD}
	resp, err := Build(resolver.Artifact{Kind: resolver.KindFile, Path: path}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "2", resp.Headers.Get(reqmsg.HeaderContentLength))
}

func TestBuild_Error(t *testing.T) {
	cfg := newTestConfig(t)
	req := &reqmsg.Request{Method: reqmsg.GET}

	resp, err := Build(resolver.Artifact{Kind: resolver.KindError, ErrorCode: reqmsg.StatusNotFound}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, reqmsg.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "page 404", string(resp.Body))
}

func TestBuild_ErrorFallsBackToMinimalBodyWhenNoTemplateIsReadable(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.TemplateRoot, "404.html")))
	require.NoError(t, os.Remove(filepath.Join(cfg.TemplateRoot, "500.html")))
	req := &reqmsg.Request{Method: reqmsg.GET}

	resp, err := Build(resolver.Artifact{Kind: resolver.KindError, ErrorCode: reqmsg.StatusNotFound}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, reqmsg.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, reqmsg.ReasonPhrase(reqmsg.StatusInternalServerError), string(resp.Body))
}

func TestBuild_Moved(t *testing.T) {
	cfg := newTestConfig(t)

	resp, err := Build(resolver.Artifact{Kind: resolver.KindMoved, Destination: "/new"}, nil, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, reqmsg.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/new", resp.Headers.Get(reqmsg.HeaderLocation))
	assert.Equal(t, "0", resp.Headers.Get(reqmsg.HeaderContentLength))
}

func TestBuild_Directory(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplateRoot, "directory.html"), []byte("<html></html>"), 0o644))
	sub := filepath.Join(cfg.PublicRoot, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("a"), 0o644))

	req := &reqmsg.Request{Method: reqmsg.GET}
	resp, err := Build(resolver.Artifact{Kind: resolver.KindDirectory, Path: sub}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, reqmsg.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), `f("a.txt"`)
	assert.Contains(t, string(resp.Body), `d("..", 0)`)
}

func TestBuild_DirectoryHeadDiscardsBodyButKeepsContentLength(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplateRoot, "directory.html"), []byte("<html></html>"), 0o644))
	sub := filepath.Join(cfg.PublicRoot, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("a"), 0o644))

	getReq := &reqmsg.Request{Method: reqmsg.GET}
	getResp, err := Build(resolver.Artifact{Kind: resolver.KindDirectory, Path: sub}, getReq, cfg, fixedNow)
	require.NoError(t, err)

	headReq := &reqmsg.Request{Method: reqmsg.HEAD}
	headResp, err := Build(resolver.Artifact{Kind: resolver.KindDirectory, Path: sub}, headReq, cfg, fixedNow)
	require.NoError(t, err)

	assert.Empty(t, headResp.Body)
	assert.Equal(t, getResp.Headers.Get(reqmsg.HeaderContentLength), headResp.Headers.Get(reqmsg.HeaderContentLength))
}

func TestBuild_DirectoryIndexShortcut(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PublicRoot, "index.html"), []byte("home"), 0o644))

	req := &reqmsg.Request{Method: reqmsg.GET}
	resp, err := Build(resolver.Artifact{Kind: resolver.KindDirectory, Path: cfg.PublicRoot}, req, cfg, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "home", string(resp.Body))
}

func TestBuildForParseError_MapsToStatusTable(t *testing.T) {
	cfg := newTestConfig(t)
	req := &reqmsg.Request{Method: reqmsg.GET}

	cases := []struct {
		in   parser.Error
		want reqmsg.StatusCode
	}{
		{parser.MethodInvalid, reqmsg.StatusNotImplemented},
		{parser.URIEmpty, reqmsg.StatusBadRequest},
		{parser.URITooLong, reqmsg.StatusBadRequest},
		{parser.RequestTooLong, reqmsg.StatusBadRequest},
		{parser.HeadersEmpty, reqmsg.StatusBadRequest},
		{parser.ProtocolInvalid, reqmsg.StatusVersionNotSupported},
	}
	for _, c := range cases {
		resp, err := BuildForParseError(c.in, req, cfg, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, c.want, resp.StatusCode, c.in.String())
	}
}
