// Package session runs one pinentry conversation.
//
// The protocol logic is the pure reducer in state.go: State.Step folds one
// inbound line into the pending directive list and says which replies to
// write and which Event to emit; State.Resolve turns the dialog outcome into
// the final replies. Session (session.go) is the thin adapter that performs
// the blocking reads and writes and hands events to the dialog over a
// capacity-1 channel.
//
// Lifecycle:
//
//	OK Please go ahead
//	directive -> OK            (repeated, Accumulating)
//	GETPIN    -> FormReady     (AwaitingPassphrase, no reply yet)
//	outcome   -> D <secret>, OK | ERR <code> Operation cancelled
//	BYE       -> Bye, OK       (Terminated)
package session
