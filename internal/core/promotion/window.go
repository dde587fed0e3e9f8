package promotion

import "time"

// Calendar は年 2 回の昇任日と受付期間を計算します。
type Calendar struct {
	july       MonthDay
	december   MonthDay
	windowDays int
}

// NewCalendar は Calendar を生成します。
func NewCalendar(rule CalendarRule) Calendar {
	return Calendar{july: rule.July, december: rule.December, windowDays: rule.WindowDays}
}

// AdmissionDates は指定年の 7 月と 12 月の昇任日を返します。
func (c Calendar) AdmissionDates(year int) (time.Time, time.Time) {
	return c.july.In(year), c.december.In(year)
}

// Window は昇任日に対する受付期間 [opens, closes) を返します。closes は昇任日そのものです。
func (c Calendar) Window(admission time.Time) (opens, closes time.Time) {
	closes = truncateDate(admission)
	return closes.AddDate(0, 0, -c.windowDays), closes
}

// InAdmissionWindow は asOf がいずれかの昇任日の直前の受付期間内かを返します。昇任日当日は含みません。
func (c Calendar) InAdmissionWindow(asOf time.Time) bool {
	_, ok := c.CurrentWindow(asOf)
	return ok
}

// CurrentWindow は asOf を含む受付期間の昇任日を返します。
func (c Calendar) CurrentWindow(asOf time.Time) (time.Time, bool) {
	day := truncateDate(asOf)
	for _, year := range []int{day.Year(), day.Year() + 1} {
		july, december := c.AdmissionDates(year)
		for _, admission := range []time.Time{july, december} {
			opens, closes := c.Window(admission)
			if !day.Before(opens) && day.Before(closes) {
				return admission, true
			}
		}
	}
	return time.Time{}, false
}

// NextAdmissionDate は asOf 以降で最も早い昇任日を返します。asOf が昇任日ならその日を返します。
func (c Calendar) NextAdmissionDate(asOf time.Time) time.Time {
	day := truncateDate(asOf)
	july, december := c.AdmissionDates(day.Year())
	switch {
	case !day.After(july):
		return july
	case !day.After(december):
		return december
	default:
		next, _ := c.AdmissionDates(day.Year() + 1)
		return next
	}
}

// IsAdmissionDate は day が昇任日かどうかを返します。
func (c Calendar) IsAdmissionDate(day time.Time) bool {
	day = truncateDate(day)
	july, december := c.AdmissionDates(day.Year())
	return day.Equal(july) || day.Equal(december)
}
