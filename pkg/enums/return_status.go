package enums

import "slices"

// ReturnStatus records whether a customer asked to send a delivered order back.
type ReturnStatus string

const (
	ReturnStatusNone      ReturnStatus = "NONE"
	ReturnStatusRequested ReturnStatus = "REQUESTED"
)

var validReturnStatuses = []ReturnStatus{
	ReturnStatusNone,
	ReturnStatusRequested,
}

func (r ReturnStatus) String() string {
	return string(r)
}

func (r ReturnStatus) IsValid() bool {
	return slices.Contains(validReturnStatuses, r)
}
