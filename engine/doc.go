// Package engine drives multi-agent orchestration runs. An Engine binds a
// mode (sequential, concurrent, group chat, handoff or magentic) to a fixed
// participant set plus selection, termination, handoff and aggregation
// policies, then executes asynchronous runs started with Invoke.
//
// Every run owns a session with an append-only message log. The turn loop is
// single-threaded: one actor per iteration, a cancellation checkpoint before
// each turn, termination evaluated after every appended message, and a hard
// safety bound on iterations that fails the run rather than stopping it
// silently. Concurrent mode is the exception: it fans the task out once to
// all participants and joins, appending replies in registration order.
//
// The caller interacts with a run through its Handle: Get blocks with a
// timeout for the cached terminal result, Cancel requests cooperative
// termination, and Session exposes the log for inspection at any point.
package engine
