package logger

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AsyncFileWriter buffers log lines in a channel and flushes them to disk
// from a single goroutine, keeping logging off the request path.
type AsyncFileWriter struct {
	file   *os.File
	writer *bufio.Writer
	lines  chan []byte
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewAsyncFileWriter(path string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	w := &AsyncFileWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, bufferSize),
		lines:  make(chan []byte, 4096),
		done:   make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)

	select {
	case w.lines <- line:
	default:
		// Queue full, drop rather than stall the caller.
	}
	return len(p), nil
}

func (w *AsyncFileWriter) loop() {
	defer w.wg.Done()

	flush := time.NewTicker(time.Second)
	defer flush.Stop()

	for {
		select {
		case line := <-w.lines:
			_, _ = w.writer.Write(line)
		case <-flush.C:
			_ = w.writer.Flush()
		case <-w.done:
			for {
				select {
				case line := <-w.lines:
					_, _ = w.writer.Write(line)
				default:
					_ = w.writer.Flush()
					return
				}
			}
		}
	}
}

func (w *AsyncFileWriter) Close() error {
	close(w.done)
	w.wg.Wait()
	return w.file.Close()
}

// ConsoleHook mirrors entries to stdout without blocking the logger.
type ConsoleHook struct {
	lines chan string
	done  chan struct{}
	wg    sync.WaitGroup
}

func NewConsoleHook(bufferSize int) *ConsoleHook {
	h := &ConsoleHook{
		lines: make(chan string, bufferSize),
		done:  make(chan struct{}),
	}
	h.wg.Add(1)
	go h.loop()
	return h
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	select {
	case h.lines <- line:
	default:
	}
	return nil
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *ConsoleHook) loop() {
	defer h.wg.Done()
	for {
		select {
		case line := <-h.lines:
			fmt.Print(line)
		case <-h.done:
			for len(h.lines) > 0 {
				fmt.Print(<-h.lines)
			}
			return
		}
	}
}

func (h *ConsoleHook) Close() {
	close(h.done)
	h.wg.Wait()
}
