// Package resolver implements C2, the Resolver: it maps a parsed request
// onto an artifact descriptor the responder can turn into bytes.
//
// Grounded on mu-httpd's src/response.c (response_process,
// response_check_public_object, response_check_moved_object): unsupported
// methods short-circuit to 501, a .moved rule wins over the filesystem,
// and a stat() on the candidate path decides file vs. directory vs. 404.
// Spec §4.2/§9 pins the redirect-before-filesystem order (the original
// historically flipped this across revisions); see DESIGN.md's Open
// Question decisions.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/reqmsg"
)

// Kind identifies what the responder should build.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindMoved
	KindError
)

// Artifact is the resolver's verdict for one request.
type Artifact struct {
	Kind        Kind
	Path        string            // filesystem path, for KindFile/KindDirectory
	Destination string            // redirect target, for KindMoved
	ErrorCode   reqmsg.StatusCode // for KindError
}

// Resolve decides the artifact for req against cfg's public root and
// template root, applying the match order of spec §4.2.
func Resolve(req *reqmsg.Request, cfg config.Config) Artifact {
	if req.Method != reqmsg.GET && req.Method != reqmsg.POST {
		return Artifact{Kind: KindError, ErrorCode: reqmsg.StatusNotImplemented}
	}

	rules, err := loadMovedRules(cfg.TemplateRoot)
	if err != nil {
		return Artifact{Kind: KindError, ErrorCode: reqmsg.StatusInternalServerError}
	}
	if dest, ok := findMoved(rules, req.URI.Path); ok {
		return Artifact{Kind: KindMoved, Destination: dest}
	}

	candidate := filepath.Join(cfg.PublicRoot, req.URI.Path)
	if cfg.StrictRoot {
		if !withinRoot(cfg.PublicRoot, candidate) {
			return Artifact{Kind: KindError, ErrorCode: reqmsg.StatusNotFound}
		}
	}

	info, err := os.Stat(candidate)
	if err != nil {
		return Artifact{Kind: KindError, ErrorCode: reqmsg.StatusNotFound}
	}
	switch {
	case info.IsDir():
		return Artifact{Kind: KindDirectory, Path: candidate}
	case info.Mode().IsRegular():
		return Artifact{Kind: KindFile, Path: candidate}
	default:
		return Artifact{Kind: KindError, ErrorCode: reqmsg.StatusNotFound}
	}
}

// withinRoot reports whether candidate's cleaned, absolute form is
// contained in root's — the hardening requirement spec §9 calls out as
// optional (StrictRoot opts in; it is off by default to keep the
// documented scenarios' faithful-reimplementation behavior).
func withinRoot(root, candidate string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
