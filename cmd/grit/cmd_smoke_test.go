package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s %v: %v", cmd.Use, args, err)
	}
	return out.String()
}

func setupCmdRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
	t.Setenv("GRIT_AUTHOR_NAME", "Test User")
	t.Setenv("GRIT_AUTHOR_EMAIL", "test@example.com")
	runCommand(t, newInitCmd())
	return dir
}

func TestInitHashObjectCatFile(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello world\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	id := strings.TrimSpace(runCommand(t, newHashObjectCmd(), "-w", "hello.txt"))
	if id != "3b18e512dba79e4c8300dd08aeb37f8e728b8dad" {
		t.Errorf("hash-object: got %s", id)
	}

	content := runCommand(t, newCatFileCmd(), "-p", id)
	if content != "hello world\n" {
		t.Errorf("cat-file: got %q", content)
	}
}

func TestHashObjectWithoutWrite(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	id := strings.TrimSpace(runCommand(t, newHashObjectCmd(), "f"))
	if len(id) != 40 {
		t.Fatalf("hash-object: got %q", id)
	}

	// Nothing was stored.
	objects := filepath.Join(dir, ".grit", "objects", id[:2])
	if _, err := os.Stat(objects); !os.IsNotExist(err) {
		t.Errorf("object stored without -w: %v", err)
	}
}

func TestWriteTreeAndLsTree(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "inner.txt"), []byte("in\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	treeID := strings.TrimSpace(runCommand(t, newWriteTreeCmd()))

	listing := runCommand(t, newLsTreeCmd(), treeID)
	if !strings.Contains(listing, "100644 blob") || !strings.Contains(listing, "\thello.txt\n") {
		t.Errorf("ls-tree listing:\n%s", listing)
	}
	if !strings.Contains(listing, "040000 tree") || !strings.Contains(listing, "\tsub\n") {
		t.Errorf("ls-tree listing missing subtree:\n%s", listing)
	}

	names := runCommand(t, newLsTreeCmd(), "--name-only", treeID)
	if names != "hello.txt\nsub\n" {
		t.Errorf("--name-only: got %q", names)
	}
}

func TestCommitAndLog(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out := runCommand(t, newCommitCmd(), "-m", "first commit")
	if !strings.HasPrefix(out, "[main ") || !strings.Contains(out, "first commit") {
		t.Errorf("commit output: %q", out)
	}

	log := runCommand(t, newLogCmd())
	if !strings.Contains(log, "commit ") || !strings.Contains(log, "    first commit") {
		t.Errorf("log output:\n%s", log)
	}
	if !strings.Contains(log, "Author: Test User <test@example.com>") {
		t.Errorf("log author line:\n%s", log)
	}
}

func TestBranchListsCurrent(t *testing.T) {
	dir := setupCmdRepo(t)

	// No refs exist before the first commit.
	if out := runCommand(t, newBranchCmd()); out != "" {
		t.Errorf("branch before first commit: %q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	runCommand(t, newCommitCmd(), "-m", "first")

	if out := runCommand(t, newBranchCmd()); out != "* main\n" {
		t.Errorf("branch: got %q, want %q", out, "* main\n")
	}
}

func TestCommitAuthorOverride(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	runCommand(t, newCommitCmd(), "-m", "authored", "--author", "Someone Else <else@example.com>")

	log := runCommand(t, newLogCmd())
	if !strings.Contains(log, "Author: Someone Else <else@example.com>") {
		t.Errorf("log author line:\n%s", log)
	}
}

func TestParseAuthor(t *testing.T) {
	who, err := parseAuthor("A U Thor <author@example.com>")
	if err != nil {
		t.Fatalf("parseAuthor: %v", err)
	}
	if who.Name != "A U Thor" || who.Email != "author@example.com" {
		t.Errorf("parseAuthor: got %+v", who)
	}

	for _, bad := range []string{"", "No Email", "<only@email>", "Name <unclosed"} {
		if _, err := parseAuthor(bad); err == nil {
			t.Errorf("parseAuthor(%q): expected error", bad)
		}
	}
}

func TestCommitTree(t *testing.T) {
	dir := setupCmdRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	treeID := strings.TrimSpace(runCommand(t, newWriteTreeCmd()))
	commitID := strings.TrimSpace(runCommand(t, newCommitTreeCmd(), treeID, "-m", "from plumbing"))
	if len(commitID) != 40 {
		t.Fatalf("commit-tree: got %q", commitID)
	}

	content := runCommand(t, newCatFileCmd(), "-p", commitID)
	if !strings.Contains(content, "tree "+treeID+"\n") {
		t.Errorf("commit content:\n%s", content)
	}
	if !strings.Contains(content, "from plumbing") {
		t.Errorf("commit message missing:\n%s", content)
	}
}

func TestConfigGetSet(t *testing.T) {
	setupCmdRepo(t)

	runCommand(t, newConfigCmd(), "user.name", "Config Name")
	got := strings.TrimSpace(runCommand(t, newConfigCmd(), "user.name"))
	if got != "Config Name" {
		t.Errorf("config get: %q", got)
	}
}
