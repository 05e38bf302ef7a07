// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"encoding/json"
	"time"
)

// Millis is a timestamp that looks like a number of milliseconds
// since the Unix epoch in JSON, e.g., the start_time of a cluster or
// run. The zero value encodes as 0.
type Millis int64

// MillisFromTime converts t to a Millis timestamp.
func MillisFromTime(t time.Time) Millis {
	if t.IsZero() {
		return 0
	}
	return Millis(t.UnixNano() / int64(time.Millisecond))
}

// Time returns the timestamp as a time.Time in UTC, or the zero
// time.Time if m is 0.
func (m Millis) Time() time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(m)*int64(time.Millisecond)).UTC()
}

// IsZero reports whether m is unset.
func (m Millis) IsZero() bool {
	return m == 0
}

// String returns the timestamp in RFC3339 format, or "" if unset.
func (m Millis) String() string {
	if m == 0 {
		return ""
	}
	return m.Time().Format(time.RFC3339Nano)
}

// UnmarshalJSON implements json.Unmarshaler. Null decodes as 0.
func (m *Millis) UnmarshalJSON(data []byte) error {
	var n *int64
	err := json.Unmarshal(data, &n)
	if err != nil {
		return err
	}
	if n == nil {
		*m = 0
	} else {
		*m = Millis(*n)
	}
	return nil
}
