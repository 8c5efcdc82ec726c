/*
DESCRIPTION
  state.go defines the shared loop state machine both the grab/analyze
  loop and the filter/output loop observe, and the timeouts that bound
  a Stop and a frame grab.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import "fmt"

// State is the orchestrator's lifecycle state, shared by both loops.
type State int

const (
	Stopped State = iota
	Running
	Suspend
	Suspended
	TicketRevoked
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Suspend:
		return "suspend"
	case Suspended:
		return "suspended"
	case TicketRevoked:
		return "ticket_revoked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitionTimeout bounds how long Stop waits for both loops to exit
// before logging a timeout and moving on anyway. Suspend does not wait
// for the loops to acknowledge the change: it marks the pipeline
// Suspended as soon as it has signaled them.
const transitionTimeout = 500 // milliseconds

// grabTimeoutMillis bounds how long the grab loop waits on the frame
// source before treating the call as a transient failure.
const grabTimeoutMillis = 100
