package preflight

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"arena/internal/config"
	"arena/internal/ipc"
)

// Check is the outcome of one startup verification.
type Check struct {
	Name   string
	Ready  bool
	Detail string
}

// Run verifies the daemon can operate with the given configuration: the
// data, log, and socket directories must be writable, and the runtime should
// answer its health probe. The runtime check is advisory; the daemon starts
// disconnected and keeps probing.
func Run(ctx context.Context, cfg *config.Config, transport ipc.Transport) []Check {
	checks := []Check{
		directoryCheck("data directory", cfg.Paths.DataDir),
		directoryCheck("log directory", cfg.Paths.LogDir),
		directoryCheck("socket directory", filepath.Dir(cfg.Paths.SocketPath)),
	}
	checks = append(checks, runtimeCheck(ctx, transport))
	return checks
}

// Ready reports whether every required check passed. The runtime
// reachability check is excluded; it never blocks startup.
func Ready(checks []Check) bool {
	for _, check := range checks {
		if check.Name == "runtime" {
			continue
		}
		if !check.Ready {
			return false
		}
	}
	return true
}

// FirstFailure returns the first required check that failed.
func FirstFailure(checks []Check) (Check, bool) {
	for _, check := range checks {
		if check.Name == "runtime" {
			continue
		}
		if !check.Ready {
			return check, true
		}
	}
	return Check{}, false
}

func directoryCheck(name, dir string) Check {
	if dir == "" {
		return Check{Name: name, Detail: "not configured"}
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("%s: %v", dir, err)}
	}
	return Check{Name: name, Ready: true, Detail: dir}
}

func runtimeCheck(ctx context.Context, transport ipc.Transport) Check {
	if transport == nil {
		return Check{Name: "runtime", Detail: "no transport configured"}
	}
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := transport.Health(probeCtx); err != nil {
		return Check{Name: "runtime", Detail: fmt.Sprintf("health probe failed: %v", err)}
	}
	return Check{Name: "runtime", Ready: true, Detail: "reachable"}
}
