// Package tracking forwards user-interaction events to the vendor analytics
// backend.
//
// The pieces stack leaf first: a Sink turns events into gtag-style commands;
// Bootstrap creates the DataLayer that queues those commands until a
// Collector is attached; a Provider owns the enabled/loaded lifecycle and the
// page-view side effect of route changes; the Lesson, Resource and Community
// trackers narrow the generic calls into domain-named ones.
//
// Every tracking call is best-effort. Nothing here returns an error to the
// caller or blocks on the network beyond the collector's own timeout.
package tracking
