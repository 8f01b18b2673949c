package constants

import (
	"fmt"
	"strings"
)

// ChildStatus lifecycle: pre_registered on enrollment, then registered,
// suspended or graduated.
type ChildStatus string

const (
	ChildPreRegistered ChildStatus = "pre_registered"
	ChildRegistered    ChildStatus = "registered"
	ChildSuspended     ChildStatus = "suspended"
	ChildGraduated     ChildStatus = "graduated"
)

var AllChildStatuses = []ChildStatus{
	ChildPreRegistered, ChildRegistered, ChildSuspended, ChildGraduated,
}

func ParseChildStatus(s string) (ChildStatus, error) {
	v := ChildStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range AllChildStatuses {
		if v == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown child status %q", s)
}

func (s ChildStatus) String() string { return string(s) }
