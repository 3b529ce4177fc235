// Package metadata assembles the repository facts gitinfo embeds into
// generated code.
package metadata

import (
	"context"
	"encoding/json"
	"slices"
)

// Repository is the capability Extract needs from a version-control tool.
// *git.Inspector implements it.
type Repository interface {
	Usable(ctx context.Context) (bool, error)
	BranchAndHash(ctx context.Context) (branch, hash string, err error)
	Tags(ctx context.Context, hash string) ([]string, error)
}

// Metadata is an immutable snapshot of branch, commit hash and tags.
// Each field may be empty independently of the others; the zero value
// means nothing is known.
type Metadata struct {
	branch string
	hash   string
	tags   []string
}

// New returns Metadata holding a private copy of tags.
func New(branch, hash string, tags []string) Metadata {
	return Metadata{branch: branch, hash: hash, tags: slices.Clone(tags)}
}

// Branch returns the branch name, or "" when unknown.
func (m Metadata) Branch() string { return m.branch }

// Hash returns the full commit hash, or "" when unknown.
func (m Metadata) Hash() string { return m.hash }

// Tags returns a copy of the tags containing the commit, in git's order.
// The result is never nil.
func (m Metadata) Tags() []string {
	if len(m.tags) == 0 {
		return []string{}
	}
	return slices.Clone(m.tags)
}

// IsEmpty reports whether no field carries a value.
func (m Metadata) IsEmpty() bool {
	return m.branch == "" && m.hash == "" && len(m.tags) == 0
}

type metadataJSON struct {
	Branch string   `json:"branch"`
	Hash   string   `json:"hash"`
	Tags   []string `json:"tags"`
}

// MarshalJSON encodes {"branch", "hash", "tags"}; tags is always an array.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{Branch: m.branch, Hash: m.hash, Tags: m.Tags()})
}

// Extract queries branch and hash, then the tags containing that hash
// (even when the hash is empty), and combines the answers.
//
// Missing repositories and failing queries show up as empty fields. The
// returned error is reserved for a tool that could not be started.
func Extract(ctx context.Context, repo Repository) (Metadata, error) {
	branch, hash, err := repo.BranchAndHash(ctx)
	if err != nil {
		return Metadata{}, err
	}
	tags, err := repo.Tags(ctx, hash)
	if err != nil {
		return Metadata{}, err
	}
	return New(branch, hash, tags), nil
}
