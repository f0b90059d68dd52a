package track

// wrap maps any integer index onto 0..Len()-1.
func (t *Track) wrap(i int) int {
	n := len(t.pieces)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// PieceAt returns the piece at index i, wrapping around in both directions.
func (t *Track) PieceAt(i int) Piece {
	return t.pieces[t.wrap(i)]
}

// NextPieces returns the n pieces after index i, nearest first.
func (t *Track) NextPieces(i, n int) []Piece {
	if n <= 0 {
		return nil
	}
	out := make([]Piece, n)
	for k := range out {
		out[k] = t.PieceAt(i + k + 1)
	}
	return out
}

// PrevPieces returns the n pieces before index i, nearest first.
func (t *Track) PrevPieces(i, n int) []Piece {
	if n <= 0 {
		return nil
	}
	out := make([]Piece, n)
	for k := range out {
		out[k] = t.PieceAt(i - k - 1)
	}
	return out
}

// Progress returns a monotonically increasing position counter for a car on the
// given lap and piece, so cars on either side of the finish line compare correctly.
func (t *Track) Progress(lap, pieceIndex int) int {
	return lap*len(t.pieces) + t.wrap(pieceIndex)
}
