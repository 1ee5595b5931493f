package spinner

import (
	"fmt"
	"io"
	"time"

	"github.com/eduardofuncao/pamdb/internal/styles"
)

var stages = []string{" ", ".", "o", "O", "@", "*"}

// Start draws a pulsing timer on w until the returned stop func is
// called. stop waits for the line to be cleared.
func Start(w io.Writer) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		waitWithTimer(w, done)
	}()
	return func() {
		close(done)
		<-finished
	}
}

func waitWithTimer(w io.Writer, done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var passed time.Duration
	for i := 0; ; i++ {
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
			passed += 100 * time.Millisecond
			fmt.Fprintf(w, "\r%s %.2fs", styles.Success.Render(stages[i%len(stages)]), passed.Seconds())
		}
	}
}
