package dbtime

import "time"

// All timestamps are stored normalized to UTC.

func DBNow() time.Time {
	return DBTime(time.Now())
}

func DBTime(t time.Time) time.Time {
	return t.UTC()
}
