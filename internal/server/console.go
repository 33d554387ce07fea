package server

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var highlight = color.New(color.FgCyan, color.Bold).SprintFunc()

// PrintBanner tells the user where the server can be reached.
func PrintBanner(w io.Writer, port int) {
	url := fmt.Sprintf("http://localhost:%d/", port)
	fmt.Fprintf(w, "Server running at %s\n", highlight(url))
	fmt.Fprintf(w, "Open %s in your browser\n", highlight(url+"index.html"))
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
}

// PrintStopped confirms shutdown. The leading newline moves past the ^C
// echoed by the terminal.
func PrintStopped(w io.Writer) {
	fmt.Fprintln(w, "\nServer stopped.")
}
