package ingest

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/matzehuels/impactriver/pkg/errors"
)

const commitMarker = "NEW COMMIT"

// Commit is one commit summarised from git log --numstat.
type Commit struct {
	Date       int64 // unix seconds, committer time
	Author     string
	Email      string
	Insertions int
	Deletions  int
	Files      int
}

// Size is the contribution size of the commit: lines added plus removed.
func (c Commit) Size() int {
	return c.Insertions + c.Deletions
}

// ParseLog parses git log output produced with [LogFormat] and --numstat.
//
// Each commit is a marker line followed by the timestamp, author name and
// author email, then an optional numstat block. Binary files report "-" for
// both counts and contribute zero lines but still count as a file.
func ParseLog(data []byte) ([]Commit, error) {
	var (
		commits []Commit
		cur     *Commit
		header  int // header lines still expected for cur
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == commitMarker {
			if cur != nil && header > 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: truncated commit header", lineNo)
			}
			commits = append(commits, Commit{})
			cur = &commits[len(commits)-1]
			header = 3
			continue
		}

		if cur == nil {
			if trimmed == "" {
				continue
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected %q, got %q", lineNo, commitMarker, trimmed)
		}

		switch header {
		case 3:
			ts, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: commit timestamp", lineNo)
			}
			cur.Date = ts
			header--
			continue
		case 2:
			cur.Author = trimmed
			header--
			continue
		case 1:
			cur.Email = trimmed
			header--
			continue
		}

		if trimmed == "" {
			continue
		}
		ins, del, err := parseNumstat(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		cur.Insertions += ins
		cur.Deletions += del
		cur.Files++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read git log")
	}
	if cur != nil && header > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "truncated commit header at end of log")
	}
	return commits, nil
}

// parseNumstat reads "<added>\t<deleted>\t<path>".
func parseNumstat(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat, "malformed numstat line %q", line)
	}
	ins, err := numstatCount(fields[0])
	if err != nil {
		return 0, 0, err
	}
	del, err := numstatCount(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ins, del, nil
}

func numstatCount(s string) (int, error) {
	if s == "-" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid numstat count %q", s)
	}
	return n, nil
}
