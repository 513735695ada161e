// Package model contains domain models passed between layers.
package model

// ItemPayload is the optional body accepted by the write operations on /crud.
// Absent fields stay nil and are encoded as JSON null.
type ItemPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// NewItemPayload builds a payload with both fields set.
func NewItemPayload(name, description string) *ItemPayload {
	return &ItemPayload{Name: &name, Description: &description}
}

// Clone returns a deep copy so responses never alias request memory.
func (p *ItemPayload) Clone() *ItemPayload {
	if p == nil {
		return nil
	}
	out := &ItemPayload{}
	if p.Name != nil {
		v := *p.Name
		out.Name = &v
	}
	if p.Description != nil {
		v := *p.Description
		out.Description = &v
	}
	return out
}
