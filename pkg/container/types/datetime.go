// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"fmt"
	"strings"
	gotime "time"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

const (
	secsPerMinute = 60
	secsPerHour   = 60 * secsPerMinute
	secsPerDay    = 24 * secsPerHour

	microSecsPerSec = 1000000

	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Date is the number of days since 1970-01-01.
func (d Date) String() string {
	return gotime.Unix(int64(d)*secsPerDay, 0).UTC().Format(dateLayout)
}

func ParseDate(s string) (Date, error) {
	t, err := gotime.ParseInLocation(dateLayout, strings.TrimSpace(s), gotime.UTC)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtx("invalid date value %s", s)
	}
	return Date(t.Unix() / secsPerDay), nil
}

// Datetime is the number of microseconds since 1970-01-01 00:00:00 UTC.
func (dt Datetime) String() string {
	sec := int64(dt) / microSecsPerSec
	usec := int64(dt) % microSecsPerSec
	if usec < 0 {
		sec--
		usec += microSecsPerSec
	}
	s := gotime.Unix(sec, 0).UTC().Format(datetimeLayout)
	if usec != 0 {
		s += fmt.Sprintf(".%06d", usec)
	}
	return s
}

func ParseDatetime(s string) (Datetime, error) {
	s = strings.TrimSpace(s)
	t, err := gotime.ParseInLocation("2006-01-02 15:04:05.999999", s, gotime.UTC)
	if err != nil {
		d, err2 := ParseDate(s)
		if err2 != nil {
			return 0, moerr.NewInvalidInputNoCtx("invalid datetime value %s", s)
		}
		return Datetime(int64(d) * secsPerDay * microSecsPerSec), nil
	}
	return Datetime(t.UnixMicro()), nil
}

func (dt Datetime) ToDate() Date {
	sec := int64(dt) / microSecsPerSec
	if int64(dt) < 0 && int64(dt)%microSecsPerSec != 0 {
		sec--
	}
	days := sec / secsPerDay
	if sec < 0 && sec%secsPerDay != 0 {
		days--
	}
	return Date(days)
}

// Time is a signed duration in microseconds.
func (t Time) String() string {
	v := int64(t)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	sec := v / microSecsPerSec
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, sec/secsPerHour, sec%secsPerHour/secsPerMinute, sec%secsPerMinute)
}

func ParseTime(s string) (Time, error) {
	var h, m, sec int64
	str := strings.TrimSpace(s)
	neg := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")
	if _, err := fmt.Sscanf(str, "%d:%d:%d", &h, &m, &sec); err != nil || m > 59 || sec > 59 {
		return 0, moerr.NewInvalidInputNoCtx("invalid time value %s", s)
	}
	v := (h*secsPerHour + m*secsPerMinute + sec) * microSecsPerSec
	if neg {
		v = -v
	}
	return Time(v), nil
}
