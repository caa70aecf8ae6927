package date

import (
	"fmt"
	"strings"
	"time"
)

type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "periodic"
	}
}

// Name returns the singular noun for the period (e.g., "day", "week", "month").
func (p Period) Name() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Yearly:
		return "year"
	default:
		return "period"
	}
}

// ToDateName returns the "-to-Date" name for the period (e.g., "Month-to-Date").
func (p Period) ToDateName() string {
	switch p {
	case Daily:
		return "Today's" // A "Day-to-Date" doesn't make much sense.
	case Weekly:
		return "Week-to-Date"
	case Monthly:
		return "Month-to-Date"
	case Quarterly:
		return "Quarter-to-Date"
	case Yearly:
		return "Year-to-Date"
	default:
		// This should be unreachable
		return p.Name() + "-to-Date"
	}
}

// Range returns a Range for the given period containing the date d.
func (p Period) Range(d Date) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}

// StartOf returns the first day of the period containing the date.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		// time.Weekday is 0=Sunday..6=Saturday. We want Monday as start.
		offset := int(d.Weekday()-time.Monday+7) % 7
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Quarterly:
		quarter := (int(d.Month()) - 1) / 3
		firstMonth := time.Month(quarter*3 + 1)
		return New(d.Year(), firstMonth, 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	}
	return d
}

// EndOf returns the last day of the period containing the date.
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return New(d.Year(), d.Month()+1, 0)
	case Quarterly:
		quarter := (int(d.Month()) - 1) / 3
		firstMonthOfNextQuarter := time.Month(quarter*3 + 4)
		return New(d.Year(), firstMonthOfNextQuarter, 0)
	case Yearly:
		return New(d.Year(), time.December, 31)
	}
	return d
}
