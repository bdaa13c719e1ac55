package core

import "strings"

// Runtime is a supported execution runtime.
type Runtime string

const (
	RuntimeNode18    Runtime = "node-18"
	RuntimeNode20    Runtime = "node-20"
	RuntimeNode22    Runtime = "node-22"
	RuntimeBun1      Runtime = "bun-1"
	RuntimePython312 Runtime = "python-3.12"
)

var knownRuntimes = []Runtime{RuntimeNode18, RuntimeNode20, RuntimeNode22, RuntimeBun1, RuntimePython312}

// AllRuntimes returns every supported runtime.
func AllRuntimes() []Runtime {
	out := make([]Runtime, len(knownRuntimes))
	copy(out, knownRuntimes)
	return out
}

func (r Runtime) IsValid() bool {
	for _, known := range knownRuntimes {
		if r == known {
			return true
		}
	}
	return false
}

// SupportsStreaming is true for an unset runtime and the node and bun families.
func (r Runtime) SupportsStreaming() bool {
	return r == "" || strings.HasPrefix(string(r), "node-") || strings.HasPrefix(string(r), "bun-")
}

func (r Runtime) String() string {
	return string(r)
}
