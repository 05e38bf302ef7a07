// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jmcvetta/randutil"
)

const idChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// IDGenerator generates X-Request-Id values that are unique within a
// process and unlikely to collide across processes: Prefix, a random
// per-generator tag, and a sequence number.
type IDGenerator struct {
	Prefix string

	tag atomic.Value
	seq int64
}

// Next returns a new ID string. It is safe to call Next from multiple
// goroutines.
func (g *IDGenerator) Next() string {
	tag, _ := g.tag.Load().(string)
	if tag == "" {
		tag, _ = randutil.String(8, idChars)
		if tag == "" {
			tag = strconv.FormatInt(time.Now().UnixNano(), 36)
		}
		if !g.tag.CompareAndSwap(nil, tag) {
			tag = g.tag.Load().(string)
		}
	}
	return g.Prefix + tag + "-" + strconv.FormatInt(atomic.AddInt64(&g.seq, 1), 36)
}
