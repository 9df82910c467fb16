/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package reqmsg holds the request/response data model shared by the
// parser, resolver and responder packages. Headers are kept as an
// ordered slice rather than a map: the spec pins insertion order for
// tests and tolerates duplicate keys, neither of which a map supports.
package reqmsg

import "strings"

// Well-known header names, named the way net/http-derived code in the
// example pack spells them.
const (
	HeaderConnection     = "Connection"
	HeaderServer         = "Server"
	HeaderDate           = "Date"
	HeaderContentType    = "Content-Type"
	HeaderContentLength  = "Content-Length"
	HeaderLocation       = "Location"
	HeaderHost           = "Host"

	TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Field is one header (key, value) pair, case preserved, in the order it
// was added or parsed.
type Field struct {
	Key   string
	Value string
}

// Header is an ordered, duplicate-tolerant header list.
type Header []Field

// Add appends a new field, keeping any existing field with the same key.
func (h *Header) Add(key, value string) {
	*h = append(*h, Field{Key: key, Value: value})
}

// Set replaces the first field matching key (case-insensitively), or
// appends a new one if none is present.
func (h *Header) Set(key, value string) {
	for i := range *h {
		if strings.EqualFold((*h)[i].Key, key) {
			(*h)[i].Value = value
			return
		}
	}
	h.Add(key, value)
}

// Get returns the value of the first field matching key
// case-insensitively, or "" if absent.
func (h Header) Get(key string) string {
	for _, f := range h {
		if strings.EqualFold(f.Key, key) {
			return f.Value
		}
	}
	return ""
}
