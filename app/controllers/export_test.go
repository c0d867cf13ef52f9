package controllers

// RunSynchronously makes the cron handler finish its work before answering.
func RunSynchronously() (restore func()) {
	prev := runInBackground
	runInBackground = func(fn func()) { fn() }
	return func() { runInBackground = prev }
}
