package types

// Direction is one of the four headings a snake can take.
type Direction int

const (
	NoDirection Direction = iota
	Up
	Right
	Down
	Left
)

var directionNames = [...]string{
	NoDirection: "none",
	Up:          "up",
	Right:       "right",
	Down:        "down",
	Left:        "left",
}

// Directions lists the valid headings in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Valid reports whether d is one of Up, Right, Down, Left.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "invalid"
	}
	return directionNames[d]
}

// ParseDirection is the inverse of String. Unknown names yield NoDirection.
func ParseDirection(s string) Direction {
	for i, name := range directionNames {
		if name == s && Direction(i).Valid() {
			return Direction(i)
		}
	}
	return NoDirection
}

// Delta returns the unit movement vector for d in screen coordinates.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	}
	return NoDirection
}

// TurnLeft rotates d a quarter turn counter-clockwise.
func (d Direction) TurnLeft() Direction {
	if !d.Valid() {
		return d
	}
	return Directions[(int(d)-int(Up)+3)%4]
}

// TurnRight rotates d a quarter turn clockwise.
func (d Direction) TurnRight() Direction {
	if !d.Valid() {
		return d
	}
	return Directions[(int(d)-int(Up)+1)%4]
}

// IsOpposite reports whether a and b point in exactly reverse directions.
func IsOpposite(a, b Direction) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	ax, ay := a.Delta()
	bx, by := b.Delta()
	return ax == -bx && ay == -by
}
