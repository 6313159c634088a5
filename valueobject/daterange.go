// Package valueobject 提供不可变的值对象.
package valueobject

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// 日期范围默认格式.
const (
	DateLayout         = "2006-01-02"
	DateRangeDelimiter = "@@"
)

// ErrInvalidDateRange 日期范围无法解析.
var ErrInvalidDateRange = errors.New("valueobject: 无效的日期范围")

// DateRange 日期范围，两端均包含.
//
// 两端只保留日期部分，构造时自动调整为 Start 不晚于 End.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange 创建日期范围，参数顺序无关.
func NewDateRange(a, b time.Time) DateRange {
	a, b = truncateDay(a), truncateDay(b)
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{start: a, end: b}
}

// ParseDateRange 以默认格式解析 "2024-01-01@@2024-01-31".
func ParseDateRange(s string) (DateRange, error) {
	return ParseDateRangeWith(s, DateLayout, DateRangeDelimiter)
}

// ParseDateRangeWith 以指定格式与分隔符解析日期范围.
//
// 取第一段为起始、最后一段为结束，不含分隔符时表示单日.
func ParseDateRangeWith(s, layout, delimiter string) (DateRange, error) {
	parts := strings.Split(s, delimiter)
	left, err := time.Parse(layout, strings.TrimSpace(parts[0]))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateRange, s, err)
	}
	right, err := time.Parse(layout, strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateRange, s, err)
	}
	return NewDateRange(left, right), nil
}

// IsValidDateRange 判断字符串能否以默认格式解析.
func IsValidDateRange(s string) bool {
	_, err := ParseDateRange(s)
	return err == nil
}

// Start 返回起始日期.
func (r DateRange) Start() time.Time { return r.start }

// End 返回结束日期.
func (r DateRange) End() time.Time { return r.end }

// IsZero 判断是否为零值.
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Len 返回包含的天数.
func (r DateRange) Len() int {
	if r.IsZero() {
		return 0
	}
	n := 0
	for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// All 逐日遍历.
func (r DateRange) All() iter.Seq2[int, time.Time] {
	return func(yield func(int, time.Time) bool) {
		if r.IsZero() {
			return
		}
		i := 0
		for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
			if !yield(i, d) {
				return
			}
			i++
		}
	}
}

// Dates 返回范围内的全部日期.
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Len())
	for _, d := range r.All() {
		dates = append(dates, d)
	}
	return dates
}

// Contains 判断日期是否在范围内.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return false
	}
	d := truncateDay(t.In(r.start.Location()))
	return !d.Before(r.start) && !d.After(r.end)
}

// Shift 整体平移若干天，负数向前.
func (r DateRange) Shift(days int) DateRange {
	return DateRange{
		start: r.start.AddDate(0, 0, days),
		end:   r.end.AddDate(0, 0, days),
	}
}

// Union 返回覆盖两个范围的最小范围.
func (r DateRange) Union(other DateRange) DateRange {
	if r.IsZero() {
		return other
	}
	if other.IsZero() {
		return r
	}
	start, end := r.start, r.end
	if other.start.Before(start) {
		start = other.start
	}
	if other.end.After(end) {
		end = other.end
	}
	return DateRange{start: start, end: end}
}

// Equal 判断两个范围是否相同.
func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// Format 以指定格式与分隔符输出.
func (r DateRange) Format(layout, delimiter string) string {
	return r.start.Format(layout) + delimiter + r.end.Format(layout)
}

func (r DateRange) String() string {
	return r.Format(DateLayout, DateRangeDelimiter)
}

// MarshalText 实现 encoding.TextMarshaler.
func (r DateRange) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，空串解析为零值.
func (r *DateRange) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = DateRange{}
		return nil
	}
	parsed, err := ParseDateRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
