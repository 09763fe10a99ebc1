package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the devicegraph banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _            _                              _    ", "#818cf8"},
		{"  __| | _____   _(_) ___ ___  __ _ _ __ __ _ _ __ | |__ ", "#a78bfa"},
		{" / _` |/ _ \\ \\ / / |/ __/ _ \\/ _` | '__/ _` | '_ \\| '_ \\", "#c084fc"},
		{"| (_| |  __/\\ V /| | (_|  __/ (_| | | | (_| | |_) | | | |", "#e879f9"},
		{" \\__,_|\\___| \\_/ |_|\\___\\___|\\__, |_|  \\__,_| .__/|_| |_|", "#f472b6"},
		{"                             |___/          |_|          ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
