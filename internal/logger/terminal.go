package logger

import (
	"syscall"
	"unsafe"
)

// isTerminal reports whether fd refers to a terminal. The broker and its
// dev-backend tooling only ship for Linux zones, so there is no
// Windows/macOS variant to maintain here.
func isTerminal(fd uintptr) bool {
	var termios syscall.Termios
	_, _, errno := syscall.Syscall6(
		syscall.SYS_IOCTL,
		fd,
		syscall.TCGETS,
		uintptr(unsafe.Pointer(&termios)),
		0, 0, 0,
	)
	return errno == 0
}
