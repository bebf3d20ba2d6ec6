package dto

import "time"

// TaskStatus is the kanban column a task occupies.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "ToDo"
	StatusInProgress TaskStatus = "InProgress"
	StatusInReview   TaskStatus = "InReview"
	StatusDone       TaskStatus = "Done"
	StatusCancelled  TaskStatus = "Cancelled"
)

// Harness identifies an agent CLI profile.
type Harness string

const (
	HarnessClaude Harness = "Claude"
	HarnessCodex  Harness = "Codex"
)

// ProcessKind distinguishes the first spawn of a task's conversation from a
// follow-up reply spawn.
type ProcessKind string

const (
	KindInitial ProcessKind = "Initial"
	KindReply   ProcessKind = "Reply"
)

// ProcessStatus is the lifecycle state of an Agent Process. It is monotonic:
// Starting -> Running -> {Completed, Failed, Killed}.
type ProcessStatus string

const (
	ProcessStarting  ProcessStatus = "Starting"
	ProcessRunning   ProcessStatus = "Running"
	ProcessCompleted ProcessStatus = "Completed"
	ProcessFailed    ProcessStatus = "Failed"
	ProcessKilled    ProcessStatus = "Killed"
)

// Terminal reports whether status is one of the three terminal states.
func (s ProcessStatus) Terminal() bool {
	switch s {
	case ProcessCompleted, ProcessFailed, ProcessKilled:
		return true
	default:
		return false
	}
}

// Sender identifies who produced an Agent Message.
type Sender string

const (
	SenderUser      Sender = "User"
	SenderSystem    Sender = "System"
	SenderAssistant Sender = "Assistant"
	SenderTool      Sender = "Tool"
)

// MessageType classifies the content of an Agent Message.
type MessageType string

const (
	MessageText       MessageType = "Text"
	MessageToolRead   MessageType = "ToolRead"
	MessageToolEdit   MessageType = "ToolEdit"
	MessageToolRun    MessageType = "ToolRun"
	MessageSystemInit MessageType = "SystemInit"
	MessageResult     MessageType = "Result"
)

// Project is a tracked local git repository.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RepoPath       string    `json:"repo_path"`
	CreatedAt      time.Time `json:"created_at"`
	DefaultProfile Harness   `json:"default_profile,omitempty"`
}

// Task is one kanban card, optionally bound to a worktree once started.
type Task struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TaskStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	WorktreePath string     `json:"worktree_path,omitempty"`
	Branch       string     `json:"branch,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
}

// Process is one spawn of an agent CLI child process.
type Process struct {
	ID              string        `json:"id"`
	TaskID          string        `json:"task_id"`
	Profile         Harness       `json:"profile"`
	Kind            ProcessKind   `json:"kind"`
	ParentProcessID string        `json:"parent_process_id,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	Status          ProcessStatus `json:"status"`
	ExitInfo        string        `json:"exit_info,omitempty"`
	WorktreePath    string        `json:"worktree_path"`
}

// Message is one normalized, append-only event in a process's conversation.
type Message struct {
	ID          string         `json:"id"`
	ProcessID   string         `json:"process_id"`
	TaskID      string         `json:"task_id"`
	Sender      Sender         `json:"sender"`
	Timestamp   time.Time      `json:"timestamp"`
	MessageType MessageType    `json:"message_type"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AgentSettings is the shape of the agent_settings.json store value.
type AgentSettings struct {
	DefaultProfile Harness `json:"default_profile"`
	ClaudeModel    string  `json:"claude_model,omitempty"`
	CodexModel     string  `json:"codex_model,omitempty"`
	MaxTurns       int     `json:"max_turns,omitempty"`
}

// DiffStat summarizes ToolEdit line deltas for a single file edit. Carried
// in a ToolEdit message's Metadata under the "diff_stat" key alongside the
// unified diff text.
type DiffStat struct {
	FilePath string `json:"file_path"`
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
}

// InvokeEnvelope is the fixed response shape of POST /api/invoke.
type InvokeEnvelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// WorktreeEntry is one row of list_app_worktrees.
type WorktreeEntry struct {
	TaskID string `json:"task_id"`
	Path   string `json:"path"`
	Orphan bool   `json:"orphan"`
}
