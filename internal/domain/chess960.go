package domain

// @name StartingPosition
type StartingPosition struct {
	ID  int    `json:"ID"`
	Fen string `json:"Fen"`
}
