package archiver

// ProgressFunc receives the number of bytes processed so far and the expected total.
type ProgressFunc func(done, total int64)

// ProgressWriter counts bytes written through it and reports them to OnProgress.
type ProgressWriter struct {
	Total      int64
	Done       int64
	OnProgress ProgressFunc
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.Done += int64(n)
	if pw.OnProgress != nil && pw.Total > 0 {
		pw.OnProgress(pw.Done, pw.Total)
	}
	return n, nil
}
