package models

// NavigatorNode is one entry in the nested page navigator rendered alongside
// the page forms. Metadata only, no content.
type NavigatorNode struct {
	ID       int64            `json:"id"`
	PID      int64            `json:"pid"`
	Title    string           `json:"title"`
	Type     PageType         `json:"type"`
	Children []*NavigatorNode `json:"children"`
}
