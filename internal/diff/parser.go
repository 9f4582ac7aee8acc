package diff

import (
	"regexp"
	"strconv"
	"strings"
)

// Status describes what happened to a file in a diff.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
	StatusRenamed  Status = "renamed"
)

// AddedLine is a single added line with its number in the post-change file.
type AddedLine struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Hunk is one contiguous changed region of a file, anchored to the target
// (post-change) revision.
type Hunk struct {
	Header      string      `json:"header"`
	TargetStart int         `json:"targetStart"`
	TargetEnd   int         `json:"targetEnd"`
	AddedLines  []AddedLine `json:"addedLines"`
	Raw         []string    `json:"raw,omitempty"`
}

// FileDiff is the parsed diff of a single file.
type FileDiff struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Hunks  []Hunk `json:"hunks"`
}

// Summary holds totals across the whole diff.
type Summary struct {
	Added int `json:"added"`
}

// ParsedDiff is an ordered, immutable view of a unified diff.
type ParsedDiff struct {
	Files   []FileDiff `json:"files"`
	Summary Summary    `json:"summary"`
}

// ChangedPaths returns the target-side path of every file in the diff, in
// diff order.
func (pd *ParsedDiff) ChangedPaths() []string {
	paths := make([]string, 0, len(pd.Files))
	for _, f := range pd.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse turns raw unified diff text into a ParsedDiff. Lines that cannot be
// attributed to a file or hunk are ignored; an empty diff yields an empty
// file list with zero sums.
func Parse(text string) *ParsedDiff {
	pd := &ParsedDiff{}
	var (
		cur     *fileState
		hunk    *Hunk
		nextNum int
	)

	flushHunk := func() {
		if cur != nil && hunk != nil {
			cur.hunks = append(cur.hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			pd.Files = append(pd.Files, cur.finish())
		}
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			cur = &fileState{}

		case cur == nil:
			// Preamble or garbage before the first file header.

		case strings.HasPrefix(line, "@@"):
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			flushHunk()
			start, _ := strconv.Atoi(m[3])
			count := 1
			if m[4] != "" {
				count, _ = strconv.Atoi(m[4])
			}
			end := start
			if count > 0 {
				end = start + count - 1
			}
			hunk = &Hunk{Header: line, TargetStart: start, TargetEnd: end}
			nextNum = start

		case hunk == nil:
			// The file header region between "diff --git" and the first
			// hunk. Header forms are only honored here: once a hunk is
			// open, lines like "--- divider" are content, not headers.
			switch {
			case strings.HasPrefix(line, "new file mode"):
				cur.created = true
			case strings.HasPrefix(line, "deleted file mode"):
				cur.deleted = true
			case strings.HasPrefix(line, "rename from "):
				cur.oldPath = strings.TrimPrefix(line, "rename from ")
			case strings.HasPrefix(line, "rename to "):
				cur.newPath = strings.TrimPrefix(line, "rename to ")
			case strings.HasPrefix(line, "--- "):
				cur.setOld(strings.TrimPrefix(line, "--- "))
			case strings.HasPrefix(line, "+++ "):
				cur.setNew(strings.TrimPrefix(line, "+++ "))
			}

		case strings.HasPrefix(line, "+"):
			hunk.AddedLines = append(hunk.AddedLines, AddedLine{
				Number:  nextNum,
				Content: line[1:],
			})
			hunk.Raw = append(hunk.Raw, line)
			if nextNum > hunk.TargetEnd {
				hunk.TargetEnd = nextNum
			}
			nextNum++
			pd.Summary.Added++

		case strings.HasPrefix(line, "-"):
			hunk.Raw = append(hunk.Raw, line)

		case strings.HasPrefix(line, " "):
			hunk.Raw = append(hunk.Raw, line)
			if nextNum > hunk.TargetEnd {
				hunk.TargetEnd = nextNum
			}
			nextNum++

		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		}
	}
	flushFile()

	return pd
}

type fileState struct {
	oldPath string
	newPath string
	created bool
	deleted bool
	hunks   []Hunk
}

func (fs *fileState) setOld(p string) {
	if p == "/dev/null" {
		fs.created = true
		return
	}
	fs.oldPath = strings.TrimPrefix(p, "a/")
}

func (fs *fileState) setNew(p string) {
	if p == "/dev/null" {
		fs.deleted = true
		return
	}
	fs.newPath = strings.TrimPrefix(p, "b/")
}

func (fs *fileState) finish() FileDiff {
	fd := FileDiff{Hunks: fs.hunks}

	// The target path comes from the new side unless the file was deleted.
	fd.Path = fs.newPath
	if fs.deleted || fd.Path == "" {
		fd.Path = fs.oldPath
	}

	switch {
	case fs.deleted:
		fd.Status = StatusDeleted
	case fs.created:
		fd.Status = StatusAdded
	case fs.oldPath != "" && fs.newPath != "" && fs.oldPath != fs.newPath:
		fd.Status = StatusRenamed
	default:
		fd.Status = StatusModified
	}
	return fd
}
