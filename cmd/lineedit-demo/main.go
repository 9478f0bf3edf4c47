// lineedit-demo
//
// A basic example of interactive line editing with the "line"/"rawterm"
// packages. It reads a line at a time from standard input and echoes it
// back. Try typing a few lines and pressing the up arrow; try TAB after
// typing "h" or "q" to see word completion; try pasting a block of text.
//
// Press ^C, ^D, or type "quit" to exit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kylelemons/lineedit/line"
	"github.com/kylelemons/lineedit/rawterm"
)

var (
	multiLine   = flag.Bool("multiline", false, "use the multi-line refresh strategy")
	mask        = flag.Bool("mask", false, "mask input with '*', for password-style prompts")
	historyFile = flag.String("history", "", "path to a history file to load/save (default: none)")
)

var words = []string{"help", "history", "hello", "quit", "quiet"}

func wordCompleter(buf []byte, pos int) []string {
	prefix := string(buf[:pos])
	if prefix == "" {
		return nil
	}
	var out []string
	for _, w := range words {
		if len(w) >= len(prefix) && w[:len(prefix)] == prefix {
			out = append(out, w)
		}
	}
	return out
}

func main() {
	flag.Parse()

	fd := int(os.Stdin.Fd())
	old, err := rawterm.RawMode(fd)
	if err != nil {
		log.Fatalf("rawterm: %s", err)
	}
	defer rawterm.Restore(fd, old)

	ch := rawterm.NewChannel(os.Stdin, os.Stdout, fd)

	hist := line.NewHistory(line.DefaultHistoryMaxLen)
	if *historyFile != "" {
		if err := hist.Load(*historyFile); err != nil && !os.IsNotExist(err) {
			log.Printf("history: %s", err)
		}
	}

	opts := line.DefaultOptions()
	opts.MultiLine = *multiLine
	opts.MaskMode = *mask
	opts.Completer = wordCompleter

	sess := line.NewSession(ch, ch, ch.Width(), opts, hist)

	for {
		text, err := sess.ReadLine("> ")
		switch err {
		case nil:
			// fall through to the echo below
		case line.ErrInterrupted, line.ErrEOF:
			fmt.Fprint(os.Stdout, "\r\nGoodbye!\r\n")
			saveHistory(hist)
			return
		default:
			log.Printf("read: %s", err)
			saveHistory(hist)
			return
		}

		if text == "quit" {
			fmt.Fprint(os.Stdout, "Goodbye!\r\n")
			saveHistory(hist)
			return
		}
		fmt.Fprintf(os.Stdout, "echo: %q\r\n", text)
	}
}

func saveHistory(h *line.History) {
	if *historyFile == "" {
		return
	}
	if dir := filepath.Dir(*historyFile); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	if err := h.Save(*historyFile); err != nil {
		log.Printf("history: %s", err)
	}
}
