package repo

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"grit/pkg/object"
)

// CommitSigner signs the unsigned canonical commit bytes and returns an
// encoded signature string carried in the commit's gpgsig header.
type CommitSigner func(payload []byte) (string, error)

// Identity stamps the author and committer lines of a commit.
type Identity struct {
	Name  string
	Email string
}

// BuildCommitText assembles the canonical commit payload: tree reference,
// parent references, author and committer stamps, an optional gpgsig
// header, a blank line, and the message.
func BuildCommitText(tree object.ID, parents []object.ID, who Identity, when time.Time, message, signature string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree.Hex())
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p.Hex())
	}
	stamp := fmt.Sprintf("%s <%s> %d %s", who.Name, who.Email, when.Unix(), when.Format("-0700"))
	fmt.Fprintf(&buf, "author %s\n", stamp)
	fmt.Fprintf(&buf, "committer %s\n", stamp)
	if signature != "" {
		fmt.Fprintf(&buf, "gpgsig %s\n", signature)
	}
	buf.WriteByte('\n')
	buf.WriteString(message)
	if !strings.HasSuffix(message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteCommit stores a commit object for tree with the given parents,
// stamped with the repository's configured identity. When signer is
// non-nil the signature is computed over the unsigned commit bytes.
func (r *Repo) WriteCommit(tree object.ID, parents []object.ID, message string, signer CommitSigner) (object.ID, error) {
	return r.WriteCommitAs(tree, parents, nil, message, signer)
}

// WriteCommitAs is WriteCommit with an explicit identity. A nil who falls
// back to the repository's configured identity.
func (r *Repo) WriteCommitAs(tree object.ID, parents []object.ID, who *Identity, message string, signer CommitSigner) (object.ID, error) {
	if who == nil {
		resolved, err := r.Identity()
		if err != nil {
			return object.ID{}, fmt.Errorf("write commit: %w", err)
		}
		who = &resolved
	}
	now := time.Now()

	signature := ""
	if signer != nil {
		payload := BuildCommitText(tree, parents, *who, now, message, "")
		sig, err := signer(payload)
		if err != nil {
			return object.ID{}, fmt.Errorf("write commit: sign: %w", err)
		}
		signature = sig
	}

	text := BuildCommitText(tree, parents, *who, now, message, signature)
	id, err := r.Store.WriteBytes(object.KindCommit, text)
	if err != nil {
		return object.ID{}, fmt.Errorf("write commit: %w", err)
	}
	return id, nil
}

// Commit snapshots the worktree, writes a commit pointing at the
// resulting tree, and advances the current branch ref (or HEAD itself
// when detached). The first commit on a branch has no parent. An empty
// worktree is refused.
func (r *Repo) Commit(message string, signer CommitSigner) (object.ID, error) {
	return r.CommitAs(message, nil, signer)
}

// CommitAs is Commit with an explicit author identity. A nil who falls
// back to the repository's configured identity.
func (r *Repo) CommitAs(message string, who *Identity, signer CommitSigner) (object.ID, error) {
	head, err := r.Head()
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}

	var parents []object.ID
	if parent, err := r.ResolveRef("HEAD"); err == nil {
		parents = append(parents, parent)
	}
	// HEAD resolution fails on an unborn branch; that is the first commit.

	tree, ok, err := r.SnapshotWorktree()
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}
	if !ok {
		return object.ID{}, fmt.Errorf("commit: refusing to commit an empty worktree")
	}

	id, err := r.WriteCommitAs(tree, parents, who, message, signer)
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}

	ref := head
	if !strings.HasPrefix(head, "refs/") {
		// Detached HEAD: write the new hash to HEAD directly.
		ref = "HEAD"
	}
	if err := r.UpdateRef(ref, id); err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// CommitInfo is the parsed header of a stored commit, as much of it as
// history traversal needs.
type CommitInfo struct {
	ID      object.ID
	Tree    object.ID
	Parents []object.ID
	Author  string
	Message string
}

func parseCommit(id object.ID, data []byte) (*CommitInfo, error) {
	header, message, ok := strings.Cut(string(data), "\n\n")
	if !ok {
		return nil, fmt.Errorf("commit %s: missing header/message separator: %w", id, object.ErrCorrupt)
	}

	info := &CommitInfo{ID: id, Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("commit %s: malformed header line %q: %w", id, line, object.ErrCorrupt)
		}
		switch key {
		case "tree":
			tree, err := object.ParseID(val)
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", id, err)
			}
			info.Tree = tree
		case "parent":
			parent, err := object.ParseID(val)
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", id, err)
			}
			info.Parents = append(info.Parents, parent)
		case "author":
			info.Author = val
		}
		// Other headers (committer, gpgsig) are preserved on disk but not
		// needed for traversal.
	}
	return info, nil
}

// Log walks the commit history starting from the given id, following
// first-parent links, returning up to limit commits newest first. A limit
// of zero or less walks the full history.
func (r *Repo) Log(start object.ID, limit int) ([]*CommitInfo, error) {
	var commits []*CommitInfo
	current := start

	for limit <= 0 || len(commits) < limit {
		kind, data, err := r.Store.ReadAll(current)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		if kind != object.KindCommit {
			return nil, fmt.Errorf("log: object %s is a %s, not a commit", current, kind)
		}
		info, err := parseCommit(current, data)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		commits = append(commits, info)

		if len(info.Parents) == 0 {
			break
		}
		current = info.Parents[0]
	}
	return commits, nil
}
