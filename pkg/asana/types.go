package asana

import (
	"encoding/json"

	"github.com/asanagraph/asana-deps-graph/pkg/errors"
)

// resourceSubtypeMilestone is the Asana subtype marking milestone tasks.
const resourceSubtypeMilestone = "milestone"

// Task is a project task with its direct dependency list.
// Immutable once fetched; BlockedBy holds the GIDs of tasks that block it.
type Task struct {
	GID       string
	Name      string
	BlockedBy []string
	Milestone bool
	Completed bool
}

// User is the authenticated Asana user, as returned by /users/me.
type User struct {
	GID   string `json:"gid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Workspace is an Asana workspace the token has access to.
type Workspace struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Project is a project inside a workspace.
type Project struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// =============================================================================
// Wire Types
// =============================================================================

// pageResponse is the envelope shared by all Asana list endpoints.
// next_page is null on the final page.
type pageResponse struct {
	Data     json.RawMessage `json:"data"`
	NextPage *nextPage       `json:"next_page"`
}

type nextPage struct {
	Offset string `json:"offset"`
}

// dataResponse is the envelope for single-object endpoints like /users/me.
type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

// taskWire is the loosely-typed task shape from the API. Required fields
// are pointers so that absent keys are distinguishable from zero values
// and can fail fast with MALFORMED_DATA at the client boundary.
type taskWire struct {
	GID             *string    `json:"gid"`
	Name            *string    `json:"name"`
	Completed       bool       `json:"completed"`
	ResourceSubtype string     `json:"resource_subtype"`
	Dependencies    []depRef   `json:"dependencies"`
}

type depRef struct {
	GID *string `json:"gid"`
}

// toTask validates a wire task and converts it to the explicit Task shape.
func (w taskWire) toTask() (Task, error) {
	if w.GID == nil || *w.GID == "" {
		return Task{}, errors.New(errors.ErrCodeMalformedData, "task response missing gid")
	}
	if w.Name == nil {
		return Task{}, errors.New(errors.ErrCodeMalformedData, "task %s missing name", *w.GID)
	}

	t := Task{
		GID:       *w.GID,
		Name:      *w.Name,
		Milestone: w.ResourceSubtype == resourceSubtypeMilestone,
		Completed: w.Completed,
	}
	for _, dep := range w.Dependencies {
		if dep.GID == nil || *dep.GID == "" {
			return Task{}, errors.New(errors.ErrCodeMalformedData, "task %s has dependency without gid", t.GID)
		}
		t.BlockedBy = append(t.BlockedBy, *dep.GID)
	}
	return t, nil
}
