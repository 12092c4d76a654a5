package bot

import "time"

// RobustExecute retries f up to n times with a fixed delay between attempts,
// stopping at the first success.
func RobustExecute(n int, d time.Duration, f func() bool) bool {
	for i := 0; i < n; i++ {
		if f() {
			return true
		}
		time.Sleep(d)
	}
	return false
}
