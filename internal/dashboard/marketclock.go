package dashboard

import "time"

// Trading window in minutes since midnight, exchange-local time
// (09:15 to 15:30).
const (
	marketOpenMinute  = 555
	marketCloseMinute = 930
)

// Clock answers whether the exchange is open, from wall-clock time
// converted to the exchange time zone.
type Clock struct {
	loc *time.Location
}

// NewClock loads the exchange time zone.
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Clock{loc: loc}, nil
}

// OpenAt reports whether the exchange is trading at the given instant:
// a weekday, with local time inside the daily window. The open bound
// is inclusive, the close bound exclusive.
func (c *Clock) OpenAt(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= marketOpenMinute && minutes < marketCloseMinute
}

// OpenNow reports whether the exchange is trading right now.
func (c *Clock) OpenNow() bool {
	return c.OpenAt(time.Now())
}
