package domain

import "errors"

// ErrNodeNotFound is returned when a tag does not resolve to a node of the flowchart.
var ErrNodeNotFound = errors.New("node not found")

// ErrSlotOutOfRange is returned when a slot index exceeds the node's slots.
var ErrSlotOutOfRange = errors.New("slot out of range")

// ErrSlotOccupied is returned by AddConnection when the source slot already has an edge.
var ErrSlotOccupied = errors.New("slot already connected")

// ErrProtectedNode is returned when inserting or removing function boundaries or connectors.
var ErrProtectedNode = errors.New("node cannot be inserted or removed directly")

// ErrDuplicateNode is returned when a node with the same tag is already part of the flowchart.
var ErrDuplicateNode = errors.New("duplicate node tag")

// ErrInvalidNode is returned for nil nodes or nodes without a statement.
var ErrInvalidNode = errors.New("invalid node")

// ErrHasChildren is returned by RemoveNode when a block still has nodes in its
// branches. Callers confirm with the user and use RemoveCascade instead.
var ErrHasChildren = errors.New("node has children")

// ErrProgramNotFound is returned when a program name cannot be found in the store.
var ErrProgramNotFound = errors.New("program not found")

// ErrFunctionNotFound is returned when a program has no function with the given name.
var ErrFunctionNotFound = errors.New("function not found")

// ErrDuplicateFunction is returned when adding a function whose name is taken.
var ErrDuplicateFunction = errors.New("duplicate function")

// ErrNotReady is returned when a program has uninitialized nodes and cannot be generated.
var ErrNotReady = errors.New("program is not ready")
