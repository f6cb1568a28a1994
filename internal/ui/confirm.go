package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmOverwrite shows a warning for an existing file and asks for a y/N
// answer on stdin. Anything but "y" or "yes" declines.
func ConfirmOverwrite(path string) bool {
	fmt.Println(RenderWarning("File exists", Detail{Key: "Path", Value: path}))
	fmt.Println()
	return Confirm(os.Stdin, os.Stdout, "Overwrite it? [y/N]: ")
}

// Confirm writes prompt to out and reads one answer line from in.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
