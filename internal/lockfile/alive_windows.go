//go:build windows

package lockfile

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isProcessAlive probes pid via OpenProcess. Access-denied means the
// process exists but signaling it is disallowed, which still counts as
// alive.
func isProcessAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return errors.Is(err, windows.ERROR_ACCESS_DENIED)
	}
	defer func() { _ = windows.CloseHandle(h) }()

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return true
	}
	return code == uint32(windows.STILL_ACTIVE)
}
