package terminal

import "time"

// Sleeper pauses between commands of a batch. Batches are never cancelled,
// so it takes no context.
type Sleeper func(d time.Duration)

// Step is one executed command of a batch.
type Step struct {
	Command string
	Result  Result
}

// Batch is the outcome of RunBatch.
type Batch struct {
	State State
	Steps []Step
	// Server is the server kind after the batch; ServerChanged is false when
	// no command started or stopped a server.
	Server        string
	ServerChanged bool
}

// RunBatch executes commands strictly in order. The state produced by command
// n is the input of command n+1. onStep, if non-nil, is called after each
// command with its result, before the next delay.
func RunBatch(commands []string, st State, server string, delay time.Duration, sleep Sleeper, onStep func(Step)) Batch {
	if sleep == nil {
		sleep = time.Sleep
	}
	b := Batch{State: st, Server: server}
	for _, cmd := range commands {
		if delay > 0 {
			sleep(delay)
		}
		res := Execute(cmd, b.State.Files, b.State.Committed, b.State.Packages)
		b.State = b.State.Apply(res)
		switch {
		case res.StartServer != "":
			b.Server, b.ServerChanged = res.StartServer, true
		case res.StopServer:
			b.Server, b.ServerChanged = "", true
		}
		step := Step{Command: cmd, Result: res}
		b.Steps = append(b.Steps, step)
		if onStep != nil {
			onStep(step)
		}
	}
	return b
}
