// Package build holds version information set with -ldflags.
package build

import (
	"fmt"
	"time"
)

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = ""
)

func init() {
	Current = newBuild(commit, date, version, repoURL)
}

func newBuild(commit, date, version, repoURL string) Build {
	parsed, _ := time.Parse(time.RFC3339, date)

	b := Build{
		Commit:    commit,
		Version:   version,
		Date:      parsed,
		RepoURL:   repoURL,
		CommitURL: "#",
	}
	if repoURL != "" && commit != "" {
		b.CommitURL = repoURL + "/tree/" + commit
	}
	return b
}

var Current Build

type Build struct {
	Commit    string    `json:"commit,omitempty"`
	Version   string    `json:"version"`
	Date      time.Time `json:"date,omitempty"`
	RepoURL   string    `json:"repo_url,omitempty"`
	CommitURL string    `json:"commit_url,omitempty"`
}

func (b Build) String() string {
	if b.Commit == "" {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, b.Commit)
}
