// Package watch reruns a task when watched directories change.
//
// File events are debounced and runs are serialized: a change that arrives
// while a run is in progress schedules exactly one follow-up run, however many
// events arrive. An optional gocron schedule feeds the same queue.
package watch
