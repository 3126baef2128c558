package floorplan

import "github.com/kirinyoku/deskgo/internal/domain"

// seatHalfExtent is half the side of a seat's square footprint.
const seatHalfExtent = 2

func seatBounds(s domain.Seat) bounds {
	return bounds{
		minX: s.X - seatHalfExtent,
		minY: s.Y - seatHalfExtent,
		maxX: s.X + seatHalfExtent,
		maxY: s.Y + seatHalfExtent,
	}
}

func areaBounds(a domain.DeskArea) bounds {
	return bounds{minX: a.X, minY: a.Y, maxX: a.X + a.Width, maxY: a.Y + a.Height}
}

func covered(s domain.Seat, areas []domain.DeskArea) bool {
	sb := seatBounds(s)
	for _, a := range areas {
		if sb.overlaps(areaBounds(a)) {
			return true
		}
	}
	return false
}

// Bookable returns the seats whose footprint touches no desk area. Order is
// preserved.
func Bookable(seats []domain.Seat, areas []domain.DeskArea) []domain.Seat {
	out := make([]domain.Seat, 0, len(seats))
	for _, s := range seats {
		if !covered(s, areas) {
			out = append(out, s)
		}
	}
	return out
}

// Excluded is the complement of Bookable.
func Excluded(seats []domain.Seat, areas []domain.DeskArea) []domain.Seat {
	var out []domain.Seat
	for _, s := range seats {
		if covered(s, areas) {
			out = append(out, s)
		}
	}
	return out
}
