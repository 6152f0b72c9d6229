// Package tools holds the task force operating picture: the FEMA USAR
// functional group roster, the equipment cache inventory, the mission
// board, and the ICS form catalogue, along with read/format operations
// over them.
//
// The catalogue also implements the three readiness source interfaces,
// so a Core can be wired directly to it:
//
//	cat := tools.NewCatalog()
//	c, err := core.New(cat.Sources())
//
// Catalogue data is immutable after construction and safe for
// concurrent reads.
package tools
