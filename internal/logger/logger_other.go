//go:build !darwin && !linux
// +build !darwin,!linux

package logger

import "os"

// Color escapes are only emitted where terminal detection is implemented
const SupportsColorEscapes = false

func GetTerminalInfo(*os.File) TerminalInfo {
	return TerminalInfo{}
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
