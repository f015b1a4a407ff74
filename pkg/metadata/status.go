package metadata

import (
	"fmt"
	"strings"
)

// LogStatus is the kind of an asset log entry.
type LogStatus string

const (
	LogStatusSetBase LogStatus = "set_base"
	LogStatusAssign  LogStatus = "assign"
	LogStatusReturn  LogStatus = "return"
	LogStatusCheck   LogStatus = "check"
	LogStatusRepair  LogStatus = "repair"
	LogStatusDonated LogStatus = "donated"
	LogStatusLost    LogStatus = "lost"
	LogStatusStolen  LogStatus = "stolen"
	LogStatusDestroy LogStatus = "destroy"
)

type statusInfo struct {
	code     int
	disposal bool
	label    string
}

// Codes are the values stored in asset_logs.status.
var statuses = map[LogStatus]statusInfo{
	LogStatusSetBase: {code: 1, label: "Base Site Set"},
	LogStatusAssign:  {code: 2, label: "Assigned"},
	LogStatusReturn:  {code: 3, label: "Returned"},
	LogStatusCheck:   {code: 4, label: "Checked"},
	LogStatusRepair:  {code: 5, label: "Repaired"},
	LogStatusDonated: {code: 32, disposal: true, label: "Donated"},
	LogStatusLost:    {code: 33, disposal: true, label: "Lost"},
	LogStatusStolen:  {code: 34, disposal: true, label: "Stolen"},
	LogStatusDestroy: {code: 35, disposal: true, label: "Destroyed"},
}

func NewLogStatus(value string) (LogStatus, error) {
	status := LogStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid log status: %s", value)
	}
	return status, nil
}

func LogStatusFromCode(code int) (LogStatus, error) {
	for status, info := range statuses {
		if info.code == code {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid log status code: %d", code)
}

func (s LogStatus) IsValid() bool {
	_, ok := statuses[s]
	return ok
}

func (s LogStatus) Code() int {
	return statuses[s].code
}

// IsDisposal reports whether the asset has left the organisation's custody.
func (s LogStatus) IsDisposal() bool {
	return statuses[s].disposal
}

func (s LogStatus) Label() string {
	if info, ok := statuses[s]; ok {
		return info.label
	}
	return "Unknown"
}

func (s LogStatus) String() string {
	return string(s)
}
