//go:build windows

package hostutil

import (
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procShowWindow       = user32.NewProc("ShowWindow")
	procFreeConsole      = kernel32.NewProc("FreeConsole")
)

// IsRunFromGUI reports whether the process was double-clicked from Explorer
// (no console, or a non-CLI parent) rather than launched from a shell,
// grounded on internal/util/util_windows.go's equivalent check.
func IsRunFromGUI() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	hasConsole := hwnd != 0

	parentName := getParentProcessName()
	isCliParent := isCliProcess(parentName)

	slog.Debug("parent process info", "parentName", parentName, "hasConsole", hasConsole, "isCliParent", isCliParent)

	if !hasConsole {
		return true
	}
	if isCliParent {
		return false
	}
	return strings.EqualFold(parentName, "explorer.exe")
}

// HideConsoleWindow hides the process's console window, used when launched
// from the GUI so no terminal flashes on screen.
func HideConsoleWindow() {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		slog.Debug("hideConsoleWindow: no console window found")
		return
	}
	_, _, _ = procShowWindow.Call(hwnd, windows.SW_HIDE)
	_, _, _ = procFreeConsole.Call()
}

// processSnapshot maps every live PID to its parent PID and executable name,
// built in one Toolhelp32 walk so looking up "my parent's name" is two map
// reads instead of two separate snapshot scans.
type processSnapshot struct {
	parentOf map[uint32]uint32
	nameOf   map[uint32]string
}

func takeProcessSnapshot() (processSnapshot, error) {
	snap := processSnapshot{parentOf: make(map[uint32]uint32), nameOf: make(map[uint32]string)}

	handle, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return snap, err
	}
	defer windows.CloseHandle(handle)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err := windows.Process32First(handle, &pe); err != nil {
		return snap, err
	}
	for {
		snap.parentOf[pe.ProcessID] = pe.ParentProcessID
		snap.nameOf[pe.ProcessID] = windows.UTF16ToString(pe.ExeFile[:])
		if err := windows.Process32Next(handle, &pe); err != nil {
			return snap, nil
		}
	}
}

func getParentProcessName() string {
	snap, err := takeProcessSnapshot()
	if err != nil {
		return ""
	}
	parentPID, ok := snap.parentOf[uint32(os.Getpid())]
	if !ok || parentPID == 0 {
		return ""
	}
	return snap.nameOf[parentPID]
}

func isCliProcess(name string) bool {
	cliProcesses := []string{
		"cmd.exe", "powershell.exe", "pwsh.exe", "wt.exe", "conhost.exe", "windowsterminal.exe",
	}
	nameLower := strings.ToLower(name)
	for _, cli := range cliProcesses {
		if nameLower == cli {
			return true
		}
	}
	return false
}
