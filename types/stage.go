package types

import (
	"fmt"
	"strings"
)

// Stage is one of the ordered steps of a restore.
type Stage string

const (
	StageCheck   Stage = "check"
	StageExtra   Stage = "extra"
	StageDelete  Stage = "delete"
	StageExtract Stage = "extract"
	StageUpdate  Stage = "update"
)

// StageOrder is the fixed execution order of a restore.
var StageOrder = []Stage{StageCheck, StageExtra, StageDelete, StageExtract, StageUpdate}

var stageCodes = map[Stage]string{
	StageCheck:   "CHECK",
	StageExtra:   "EXTRA_BACKUP",
	StageDelete:  "DELETE",
	StageExtract: "EXTRACT",
	StageUpdate:  "UPDATE_CONFIG",
}

// Code returns the wire code used in "[CODE] detail" messages.
func (s Stage) Code() string {
	return stageCodes[s]
}

// Index returns the position of s in StageOrder, or -1.
func (s Stage) Index() int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// StageFromCode maps a wire code case-insensitively. Unknown codes return false.
func StageFromCode(code string) (Stage, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for st, c := range stageCodes {
		if c == code {
			return st, true
		}
	}
	return "", false
}

// StageError is a restore failure attributed to a stage.
type StageError struct {
	Stage  Stage
	Detail string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Stage.Code(), e.Detail)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as a failure of stage st.
func NewStageError(st Stage, err error) *StageError {
	return &StageError{Stage: st, Detail: err.Error(), Err: err}
}
