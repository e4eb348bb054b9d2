package gesture

// comboRule pairs a curve sense and swipe direction with the combo they form.
type comboRule struct {
	rotation  Rotation
	direction Direction
	combo     Combo
}

// comboTable is evaluated in order; the first matching rule wins.
var comboTable = []comboRule{
	{RotationClockwise, DirectionDown, ComboClockwiseDown},
	{RotationClockwise, DirectionLeft, ComboClockwiseLeft},
	{RotationCounterClockwise, DirectionUp, ComboCounterClockwiseUp},
	{RotationCounterClockwise, DirectionRight, ComboCounterClockwiseRight},
}

// Resolve returns the combo formed by a curve and a swipe, or ComboNone.
func Resolve(r Rotation, d Direction) Combo {
	for _, rule := range comboTable {
		if rule.rotation == r && rule.direction == d {
			return rule.combo
		}
	}
	return ComboNone
}

// Parts returns the curve and swipe that form c.
func (c Combo) Parts() (Rotation, Direction) {
	for _, rule := range comboTable {
		if rule.combo == c {
			return rule.rotation, rule.direction
		}
	}
	return RotationNone, DirectionNone
}
