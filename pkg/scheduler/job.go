package scheduler

// Job is a unit of work run by a Queue.
//
// Jobs are deduplicated by identity, so implementations must be
// comparable, normally pointer types. *reactivity.Effect is a Job.
type Job interface {
	Run()
}

// activeJob is implemented by jobs that can be cancelled after queueing.
// A job reporting false is skipped by the flush.
type activeJob interface {
	Active() bool
}

// namedJob is implemented by jobs that carry a label for logs.
type namedJob interface {
	Name() string
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	fn func()
}

// NewJob wraps fn. Each call returns a distinct job, so queueing the same
// *JobFunc twice runs it once while two NewJob calls run twice.
func NewJob(fn func()) *JobFunc {
	return &JobFunc{fn: fn}
}

// Run calls the wrapped function.
func (j *JobFunc) Run() {
	if j.fn != nil {
		j.fn()
	}
}

func jobName(job Job) string {
	if n, ok := job.(namedJob); ok && n.Name() != "" {
		return n.Name()
	}
	return "anonymous"
}
