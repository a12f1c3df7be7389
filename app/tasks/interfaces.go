package tasks

// TaskSchedulerInterface defines the interface for background task
// processing. The API handlers use it to enqueue submission relays; the
// scheduler's own ticker enqueues sheet probes.
// Example usage:
//
//	scheduler := NewScheduler(service, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRelaySubmissionTask("board", form, httpClient))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
