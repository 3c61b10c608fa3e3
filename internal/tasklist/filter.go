package tasklist

import (
	"fmt"
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// StatusFilter selects tasks by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// StatusFilters lists the status filters in display order
var StatusFilters = []StatusFilter{StatusAll, StatusCompleted, StatusPending}

// DateFilter selects tasks by where their date falls relative to today
type DateFilter string

const (
	DateAll    DateFilter = "all"
	DateToday  DateFilter = "today"
	DatePast   DateFilter = "past"
	DateFuture DateFilter = "future"
)

// DateFilters lists the date filters in display order
var DateFilters = []DateFilter{DateAll, DateToday, DatePast, DateFuture}

// ParseStatusFilter accepts all, completed or pending (case-insensitive)
func ParseStatusFilter(s string) (StatusFilter, error) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range StatusFilters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown status filter %q (want all, completed or pending)", s)
}

// ParseDateFilter accepts all, today, past or future (case-insensitive)
func ParseDateFilter(s string) (DateFilter, error) {
	f := DateFilter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DateFilters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown date filter %q (want all, today, past or future)", s)
}

// Match reports whether t passes the filter
func (f StatusFilter) Match(t models.Task) bool {
	switch f {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	default:
		return true
	}
}

// Next cycles to the following status filter
func (f StatusFilter) Next() StatusFilter {
	return StatusFilters[(indexOf(StatusFilters, f)+1)%len(StatusFilters)]
}

// BucketOf classifies d against today as DateToday, DatePast or DateFuture
func BucketOf(d, today models.Date) DateFilter {
	switch {
	case d.Before(today):
		return DatePast
	case d.After(today):
		return DateFuture
	default:
		return DateToday
	}
}

// Match reports whether t falls in the filter's bucket
func (f DateFilter) Match(t models.Task, today models.Date) bool {
	if f == DateAll || f == "" {
		return true
	}
	return BucketOf(t.Date, today) == f
}

// Next cycles to the following date filter
func (f DateFilter) Next() DateFilter {
	return DateFilters[(indexOf(DateFilters, f)+1)%len(DateFilters)]
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}
