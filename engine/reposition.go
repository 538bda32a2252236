package engine

import "indentpaste/types"

// CursorPositions returns the post-edit end of every inserted block.
// sorted must be in document order. Each plan's end is shifted by the line
// drift of the plans before it.
func CursorPositions(sorted []*Plan) []types.Position {
	positions := make([]types.Position, 0, len(sorted))
	drift := 0
	for _, p := range sorted {
		positions = append(positions, types.Position{
			Line:      p.BaseEnd.Line + drift,
			Character: p.BaseEnd.Character,
		})
		drift += p.LineDelta()
	}
	return positions
}
