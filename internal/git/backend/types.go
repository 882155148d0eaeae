package backend

import (
	"strings"
	"time"
)

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// ShortHash returns the first seven characters of the hash.
func (c *Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Subject returns the first non-empty line of the message.
func (c *Commit) Subject() string {
	for line := range strings.SplitSeq(c.Message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

type RefKind uint8

const (
	RefKindBranch RefKind = iota
	RefKindRemoteBranch
	RefKindTag
)

type Ref struct {
	Hash string
	Kind RefKind
	Name string // short name: main, origin/main, v1
}
