// Copyright 2025 Rotational Labs
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llsd

import (
	"fmt"
	"time"
)

// dateLayout is the ISO-8601 text form every textual format uses to carry
// a date value: millisecond precision, always UTC (grounded on the
// "%04d-%02d-%02dT%02d:%02d:%02d.%03dZ" gmtime format the original's
// notation/XML/JSON serializers all share).
const dateLayout = "2006-01-02T15:04:05.000Z"

// FormatDate renders seconds-since-epoch as the ISO-8601 string the wire
// formats use for the date variant.
func FormatDate(seconds float64) string {
	whole := int64(seconds)
	frac := seconds - float64(whole)
	t := time.Unix(whole, int64(frac*1e9)).UTC()
	return t.Format(dateLayout)
}

// ParseDate parses the ISO-8601 date string of spec §4.6 into
// seconds-since-epoch. Accepts the canonical millisecond form and the
// bare-seconds form (no fractional part) for leniency on input.
func ParseDate(s string) (float64, error) {
	for _, layout := range []string{dateLayout, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadDate, s)
}
