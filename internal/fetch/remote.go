package fetch

import (
	"fmt"
	"path"
	"strings"
)

// Remote is a parsed remote include reference of the form
// host/owner/repo/path/to/file.dawn@ref.
type Remote struct {
	Repo string // host/owner/repo
	File string // slash-separated path inside the repository
	Ref  string // tag, branch or commit
}

// ParseRemote splits a remote include reference into its parts.
func ParseRemote(ref string) (Remote, error) {
	at := strings.LastIndex(ref, "@")
	if at < 0 {
		return Remote{}, fmt.Errorf("remote include %s: missing @ref", ref)
	}
	loc, version := ref[:at], ref[at+1:]
	if version == "" {
		return Remote{}, fmt.Errorf("remote include %s: empty ref", ref)
	}

	parts := strings.Split(loc, "/")
	if len(parts) < 4 {
		return Remote{}, fmt.Errorf("remote include %s: expected host/owner/repo/file", ref)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return Remote{}, fmt.Errorf("remote include %s: invalid path element %q", ref, p)
		}
	}
	if !strings.Contains(parts[0], ".") {
		return Remote{}, fmt.Errorf("remote include %s: %s is not a host", ref, parts[0])
	}

	return Remote{
		Repo: strings.Join(parts[:3], "/"),
		File: path.Join(parts[3:]...),
		Ref:  version,
	}, nil
}

// GitURL returns the clone URL of the repository.
func (r Remote) GitURL() string {
	return "https://" + r.Repo + ".git"
}

func (r Remote) String() string {
	return r.Repo + "/" + r.File + "@" + r.Ref
}
