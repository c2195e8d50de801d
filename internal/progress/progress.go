package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const clearLine = "\r\033[K"

type Progress struct {
	mu      sync.Mutex
	frames  []string
	tick    int
	active  bool
	animate bool
	text    string
	tpf     time.Duration
	writer  io.Writer
}

// New starts a progress line on w. The text must carry one %s verb which is
// replaced by the spinner frame and, once stopped, by the final indicator.
// Writers that are not terminals only get the final line.
func New(w io.Writer, text string) *Progress {
	progress := Progress{
		text:    text,
		frames:  []string{".  ", ".. ", "..."},
		tpf:     500 * time.Millisecond,
		writer:  w,
		animate: isTerminal(w),
	}
	progress.Start()
	return &progress
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (progress *Progress) Start() {
	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.active { // prevent spawning concurrent progress
		return
	}
	progress.active = true
	if !progress.animate {
		return
	}
	go func() {
		for progress.frame() {
			time.Sleep(progress.tpf)
		}
	}()
}

func (progress *Progress) frame() bool {
	progress.mu.Lock()
	defer progress.mu.Unlock()
	if !progress.active {
		return false
	}
	indicator := progress.frames[progress.tick%len(progress.frames)]
	fmt.Fprintf(progress.writer, clearLine+progress.text, indicator)
	progress.tick++
	return true
}

func (progress *Progress) Finish() { progress.Stop("√") }

func (progress *Progress) Fail() { progress.Stop("x") }

func (progress *Progress) Stop(indicator string) {
	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.active {
		progress.active = false
		message := fmt.Sprintf(progress.text, indicator)
		if progress.animate {
			message = clearLine + message
		}
		fmt.Fprintln(progress.writer, message)
	}
}
