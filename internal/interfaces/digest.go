package interfaces

import "time"

type DigestBuilder interface {
	SummarizeDay(t time.Time) (csvPath string, err error)
	SummarizeToday() (csvPath string, err error)
}
