package runner

import (
	"bufio"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/agent-board/backend/internal/agent"
	"github.com/agent-board/backend/internal/dto"
)

// readLoop consumes the child's stdout line by line, feeding each line to
// the profile's parser and turning resulting events into stored, broadcast
// messages (spec §4.D.4). EOF is a normal termination, never an error.
func (r *Runner) readLoop(lp *liveProcess, stdout io.Reader, profile agent.Profile) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		events, err := profile.ParseLine(line, lp.parseState)
		if err != nil {
			slog.Warn("runner: parse line failed, skipping", "process", lp.process.ID, "err", err)
			continue
		}
		for _, ev := range events {
			r.appendMessage(lp, ev.Sender, ev.MessageType, ev.Content, ev.Metadata, ev.TurnKey)
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("runner: stdout scan ended with error", "process", lp.process.ID, "err", err)
	}
}

// waitLoop waits for readLoop to fully drain the child's stdout before
// calling cmd.Wait, determines terminal status, and finalizes the process
// record (spec §4.D.5). Per the os/exec contract, Wait closes the read end
// of StdoutPipe once the child exits, so calling it while readLoop is still
// reading can truncate the tail of the child's output (often the final
// result/usage message); waiting for stdoutDone first guarantees every line
// the child wrote is parsed and appended before the terminal status is
// computed and published.
func (r *Runner) waitLoop(lp *liveProcess, cmd *exec.Cmd, stdoutDone <-chan struct{}) {
	<-stdoutDone
	err := cmd.Wait()

	lp.mu.Lock()
	killed := lp.killed
	lp.mu.Unlock()

	status := dto.ProcessCompleted
	exitInfo := ""
	switch {
	case killed:
		status = dto.ProcessKilled
	case err != nil:
		status = dto.ProcessFailed
		exitInfo = err.Error()
	}

	lp.mu.Lock()
	lp.process.Status = status
	now := time.Now().UTC()
	lp.process.EndTime = &now
	lp.process.ExitInfo = exitInfo
	taskID := lp.process.TaskID
	proc := lp.process
	lp.mu.Unlock()

	r.flushMessages(lp)
	if perr := r.persistProcess(proc); perr != nil {
		slog.Error("runner: persist terminal process", "err", perr)
	}
	r.Bus.Publish("agent_process_status", statusPayload(proc))

	r.mu.Lock()
	if r.byTask[taskID] == proc.ID {
		delete(r.byTask, taskID)
	}
	r.mu.Unlock()
}

// lineLogger adapts stderr into per-line slog.Warn calls, matching the
// teacher's slogWriter idiom: the core never parses stderr semantically.
type lineLogger struct {
	processID string
	buf       []byte
}

func newLineLogger(processID string) *lineLogger {
	return &lineLogger{processID: processID}
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := indexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		if line != "" {
			slog.Warn("agent stderr", "process", w.processID, "line", line)
		}
	}
	return len(p), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
