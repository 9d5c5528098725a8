// Package restore drives a restore attempt and tracks its per-stage progress.
package restore

import (
	"errors"
	"regexp"
	"strings"

	"game-sl/types"
)

// Status is the progress of one stage.
type Status string

const (
	StatusWait    Status = "wait"
	StatusProcess Status = "process"
	StatusFinish  Status = "finish"
	StatusError   Status = "error"
)

// Result is the outcome of a finished attempt.
type Result string

const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
)

// Progress notes shown next to the stage list
const (
	NoteRestoring = "restoring"
	NoteCompleted = "completed"
	NoteFailed    = "failed"
)

// State is the restore overlay. A nil Result while Open means an attempt is running.
type State struct {
	Open      bool                   `json:"open"`
	Steps     map[types.Stage]Status `json:"steps"`
	Result    *Result                `json:"result"`
	Note      string                 `json:"note"`
	Detail    string                 `json:"detail"`
	Game      string                 `json:"gameName"`
	Backup    string                 `json:"backupName"`
	AttemptID string                 `json:"attemptId"`
}

// InFlight reports whether an attempt is open and has no result yet.
func (s State) InFlight() bool {
	return s.Open && s.Result == nil
}

// Status returns the status of stage st.
func (s State) Status(st types.Stage) Status {
	if v, ok := s.Steps[st]; ok {
		return v
	}
	return StatusWait
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// Opened starts an attempt.
type Opened struct {
	Game      string
	Backup    string
	AttemptID string
}

// Succeeded marks the attempt as done.
type Succeeded struct{}

// Failed marks the attempt as failed at Stage, or at no known stage when Stage is nil.
type Failed struct {
	Stage  *types.Stage
	Detail string
}

// Closed dismisses a finished attempt.
type Closed struct{}

func (Opened) isEvent()    {}
func (Succeeded) isEvent() {}
func (Failed) isEvent()    {}
func (Closed) isEvent()    {}

// Initial returns the closed state with every stage waiting.
func Initial() State {
	return State{Steps: steps(func(int) Status { return StatusWait })}
}

func steps(status func(i int) Status) map[types.Stage]Status {
	m := make(map[types.Stage]Status, len(types.StageOrder))
	for i, st := range types.StageOrder {
		m[st] = status(i)
	}
	return m
}

// Reduce applies ev to s and returns the new state. s is not modified.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Opened:
		return State{
			Open: true,
			Steps: steps(func(i int) Status {
				if i == 0 {
					return StatusProcess
				}
				return StatusWait
			}),
			Note:      NoteRestoring,
			Game:      e.Game,
			Backup:    e.Backup,
			AttemptID: e.AttemptID,
		}

	case Succeeded:
		next := s
		r := ResultSuccess
		next.Result = &r
		next.Note = NoteCompleted
		next.Steps = steps(func(int) Status { return StatusFinish })
		return next

	case Failed:
		idx := -1
		if e.Stage != nil {
			idx = e.Stage.Index()
		}
		next := s
		r := ResultError
		next.Result = &r
		next.Note = NoteFailed
		next.Detail = e.Detail
		next.Steps = steps(func(i int) Status {
			switch {
			case idx < 0:
				return StatusWait
			case i < idx:
				return StatusFinish
			case i == idx:
				return StatusError
			}
			return StatusWait
		})
		return next

	case Closed:
		if s.Result == nil {
			return s
		}
		return Initial()
	}
	return s
}

var stageMessage = regexp.MustCompile(`^\[(.+?)\]\s*(.*)$`)

var errorPrefix = regexp.MustCompile(`^Error:\s*`)

// ParseRestoreError splits a "[CODE] detail" message. Unknown codes and unbracketed
// messages give a nil stage; an empty detail falls back to the whole message.
func ParseRestoreError(text string) (*types.Stage, string) {
	if strings.TrimSpace(text) == "" {
		return nil, "restore failed"
	}
	msg := errorPrefix.ReplaceAllString(text, "")
	m := stageMessage.FindStringSubmatch(msg)
	if m == nil {
		return nil, msg
	}
	detail := m[2]
	if detail == "" {
		detail = msg
	}
	st, ok := types.StageFromCode(m[1])
	if !ok {
		return nil, detail
	}
	return &st, detail
}

// StageFromError attributes err to a stage, reading a *types.StageError when present.
func StageFromError(err error) (*types.Stage, string) {
	if err == nil {
		return nil, ""
	}
	var stageErr *types.StageError
	if errors.As(err, &stageErr) {
		st := stageErr.Stage
		detail := stageErr.Detail
		if detail == "" {
			detail = stageErr.Error()
		}
		return &st, detail
	}
	return ParseRestoreError(err.Error())
}
