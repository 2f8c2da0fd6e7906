package models

// Category is a node of the service taxonomy. Sub-categories reference their
// parent through ParentID.
type Category struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	ParentID string `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Active   bool   `bson:"active" json:"active"`
}
