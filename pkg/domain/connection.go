package domain

import "fmt"

// Connection is a directed control-flow edge from an outgoing slot of Src to
// an incoming slot of Dst.
type Connection struct {
	Src     Tag `json:"src" yaml:"src"`
	SrcSlot int `json:"src_slot" yaml:"src_slot"`
	Dst     Tag `json:"dst" yaml:"dst"`
	DstSlot int `json:"dst_slot" yaml:"dst_slot"`
}

// IsSelfLoop reports whether the connection leaves and enters the same node,
// the shape of an empty loop body.
func (c Connection) IsSelfLoop() bool {
	return c.Src == c.Dst
}

func (c Connection) String() string {
	return fmt.Sprintf("%s.%d -> %s.%d", c.Src, c.SrcSlot, c.Dst, c.DstSlot)
}
