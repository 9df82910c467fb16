package responder

import "strings"

// mimeByExtension is the fixed extension→type table of spec §4.3,
// reproduced verbatim from mu-httpd's response_get_mime
// (src/response.c) rather than delegating to the OS mime database
// (mime.TypeByExtension, the wrapper badu-http's own mime package
// exposes): the OS database varies across machines and the spec's test
// suite pins exact values for a small, closed set of extensions.
var mimeByExtension = map[string]string{
	"html": "text/html",
	"txt":  "text/plain",
	"jpe":  "image/jpeg",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"css":  "text/css",
	"js":   "text/javascript",
	"pdf":  "application/pdf",
}

const defaultMIME = "application/octet-stream"

// mimeFor returns the Content-Type for a filename's extension, falling
// back to defaultMIME for anything not in the table.
func mimeFor(name string) string {
	ext := name
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		ext = strings.ToLower(name[idx+1:])
	} else {
		return defaultMIME
	}
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return defaultMIME
}
