package rpc

import (
	"strings"
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"projectId":     "project_id",
		"ProjectID":     "project_id",
		"project_id":    "project_id",
		"max_turns":     "max_turns",
		"maxTurns":      "max_turns",
		"repoPath":      "repo_path",
		"id":            "id",
		"ID":            "id",
		"worktree-path": "worktree_path",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeArgsRewritesNestedKeys(t *testing.T) {
	raw := []byte(`{"ProjectID":"p1","Task":{"TaskID":"t1","WorktreePath":"/tmp/x"}}`)
	out := normalizeArgs(raw)

	got := string(out)
	for _, want := range []string{`"project_id"`, `"task_id"`, `"worktree_path"`} {
		if !strings.Contains(got, want) {
			t.Errorf("normalized output %s missing key %s", got, want)
		}
	}
}
