package domain

// LikeState is the pair of fields the like toggle flips together.
type LikeState struct {
	Likes int
	Liked bool
}

// Toggle returns the next state: an unliked meal gains one like, a liked one
// loses one. Likes never drops below zero.
func (s LikeState) Toggle() LikeState {
	if s.Liked {
		n := s.Likes - 1
		if n < 0 {
			n = 0
		}
		return LikeState{Likes: n, Liked: false}
	}
	return LikeState{Likes: s.Likes + 1, Liked: true}
}
