package billing

// SetMaxPages lowers the pagination limit for a test and returns a restore func
func SetMaxPages(n int) func() {
	previous := maxPages
	maxPages = n
	return func() { maxPages = previous }
}
