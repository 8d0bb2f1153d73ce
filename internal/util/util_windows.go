//go:build windows

package util

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

// shellNames are parent processes that mean dx3 was started from a terminal
// and should behave like a normal CLI.
var shellNames = map[string]bool{
	"cmd.exe":             true,
	"powershell.exe":      true,
	"pwsh.exe":            true,
	"wt.exe":              true,
	"conhost.exe":         true,
	"windowsterminal.exe": true,
}

// IsRunFromGUI reports whether dx3 was launched by double-click (Explorer or
// a shortcut) rather than from a shell, so the default command can start
// bridging immediately instead of printing usage.
func IsRunFromGUI() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		// No console at all: launched through a GUI subsystem wrapper.
		return true
	}

	parent := parentProcessName()
	slog.Debug("Launch context", "parent", parent)
	if shellNames[strings.ToLower(parent)] {
		return false
	}
	return strings.EqualFold(parent, "explorer.exe")
}

// HideConsoleWindow detaches the console a GUI launch inherited, so the
// bridge keeps running without a stray terminal window.
func HideConsoleWindow() {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return
	}
	_, _, _ = procShowWindow.Call(hwnd, windows.SW_HIDE)
	_, _, _ = procFreeConsole.Call()
}

// parentProcessName resolves the executable name of this process's parent
// from one toolhelp snapshot: first pass finds the parent PID, second pass
// resolves its name.
func parentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	parentPID := findParentPID(snapshot, uint32(os.Getpid()))
	if parentPID == 0 {
		return ""
	}
	return findProcessName(snapshot, parentPID)
}

func findParentPID(snapshot windows.Handle, pid uint32) uint32 {
	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err := windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		if pe.ProcessID == pid {
			return pe.ParentProcessID
		}
	}
	return 0
}

func findProcessName(snapshot windows.Handle, pid uint32) string {
	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err := windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		if pe.ProcessID == pid {
			return windows.UTF16ToString(pe.ExeFile[:])
		}
	}
	return ""
}
