package personalization

import "time"

// Clock returns the current instant. Handlers read it once per job.
type Clock func() time.Time

// Now reads c (time.Now when nil) and converts the result to loc.
func (c Clock) Now(loc *time.Location) time.Time {
	now := time.Now
	if c != nil {
		now = c
	}
	t := now()
	if loc != nil {
		t = t.In(loc)
	}
	return t
}
