package board

// Zone boundaries of the standard track. Cells 0–23 roll one die, 24–97
// roll two; inside the summation zone only the dice sum may be walked.
const (
	TwoDiceZoneStart   = 24
	SummationZoneStart = 68
)

func cell(id int, kind CellKind, name string) Cell {
	return Cell{ID: id, Kind: kind, Name: name, PortalTarget: -1}
}

func portal(id int, name string, target int) Cell {
	return Cell{ID: id, Kind: Portal, Name: name, PortalTarget: target}
}

// DefaultBoard returns the standard 98-cell race track.
func DefaultBoard() *Board {
	cells := []Cell{
		// Single-die zone.
		cell(0, Start, "Start"),
		cell(1, Bicycle, "Bicycle"),
		cell(2, ChestGood, "Good Chest"),
		cell(3, Shop, "Joe's Shop"),
		cell(4, RuleDraw, "Ta-Dam!"),
		cell(5, ChestGood, "Good Chest"),
		cell(6, Shop, "Joe's Shop"),
		cell(7, Red, "Red Cell"),
		cell(8, Empty, "Empty Cell"),
		cell(9, ChestGood, "Good Chest"),
		portal(10, "Blue Teleport #1", 23),
		cell(11, RuleDraw, "Ta-Dam!"),
		cell(12, ChestGood, "Good Chest"),
		cell(13, ChestGood, "Good Chest"),
		cell(14, ChestGood, "Good Chest"),
		cell(15, Green, "Green Cell"),
		cell(16, ChestGood, "Good Chest"),
		portal(17, "Pink Teleport #1", 28),
		cell(18, RuleDraw, "Ta-Dam!"),
		cell(19, Shop, "Joe's Shop"),
		cell(20, ChestGood, "Good Chest"),
		cell(21, Shop, "Joe's Shop"),
		cell(22, ChestBad, "Bad Chest"),
		portal(23, "Blue Teleport #2", 10),

		// Two-dice zone: pick either die.
		cell(24, Empty, "Empty Cell"),
		cell(25, ChestGood, "Good Chest"),
		cell(26, Green, "Green Cell"),
		cell(27, Red, "Red Cell"),
		portal(28, "Pink Teleport #2", 17),
		cell(29, Red, "Red Cell"),
		cell(30, Red, "Red Cell"),
		cell(31, ChestBad, "Bad Chest"),
		cell(32, Red, "Red Cell"),
		cell(33, Empty, "Empty Cell"),
		cell(34, Shop, "Joe's Shop"),
		cell(35, Empty, "Empty Cell"),
		portal(36, "Yellow Teleport #1", 47),
		cell(37, ChestGood, "Good Chest"),
		cell(38, Green, "Green Cell"),
		cell(39, Empty, "Empty Cell"),
		cell(40, FortuneCube, "Fortune Cube"),
		cell(41, Green, "Green Cell"),
		cell(42, ChestBad, "Bad Chest"),
		cell(43, Shop, "Joe's Shop"),
		cell(44, Empty, "Empty Cell"),
		cell(45, RuleDraw, "Ta-Dam!"),
		cell(46, Green, "Green Cell"),
		portal(47, "Yellow Teleport #2", 36),
		cell(48, ChestGood, "Good Chest"),
		cell(49, Shop, "Joe's Shop"),
		cell(50, Red, "Red Cell"),
		cell(51, ChestGood, "Good Chest"),
		portal(52, "Green Teleport #1", 64),
		cell(53, Green, "Green Cell"),
		cell(54, ChestGood, "Good Chest"),
		cell(55, Red, "Red Cell"),
		cell(56, Empty, "Empty Cell"),
		cell(57, FortunateSetup, "Fortunate Setup"),
		cell(58, Green, "Green Cell"),
		cell(59, RuleDraw, "Ta-Dam!"),
		cell(60, Tornado, "Tornado"),
		cell(61, Shop, "Joe's Shop"),
		cell(62, Empty, "Empty Cell"),
		cell(63, Green, "Green Cell"),
		portal(64, "Green Teleport #2", 52),
		cell(65, Green, "Green Cell"),
		cell(66, Tribute, "Tribute"),
		cell(67, Empty, "Empty Cell"),

		// Summation zone: walk the dice sum.
		cell(68, Shop, "Joe's Shop"),
		cell(69, Empty, "Empty Cell"),
		cell(70, Duel, "Skirmish"),
		cell(71, Empty, "Empty Cell"),
		cell(72, ChestGood, "Good Chest"),
		cell(73, Green, "Green Cell"),
		cell(74, Red, "Red Cell"),
		cell(75, Empty, "Empty Cell"),
		cell(76, Shop, "Joe's Shop"),
		cell(77, ChestGood, "Good Chest"),
		cell(78, ChestGood, "Good Chest"),
		cell(79, Empty, "Empty Cell"),
		cell(80, Empty, "Empty Cell"),
		cell(81, Shop, "Joe's Shop"),
		cell(82, Empty, "Empty Cell"),
		cell(83, Mine, "Mine Shaft"),
		cell(84, ChestBad, "Bad Chest"),
		cell(85, ChestBad, "Bad Chest"),
		cell(86, ChestBad, "Bad Chest"),
		cell(87, OhNo, "Oh No!"),
		cell(88, Red, "Red Cell"),
		cell(89, Red, "Red Cell"),
		cell(90, Red, "Red Cell"),
		cell(91, Red, "Red Cell"),
		cell(92, Red, "Red Cell"),
		cell(93, ChestBad, "Bad Chest"),
		cell(94, ChestBad, "Bad Chest"),
		cell(95, ChestBad, "Bad Chest"),
		cell(96, ChestBad, "Bad Chest"),
		cell(97, FinishSafe, "Gum / Finish Safe"),
	}
	b, err := New(cells)
	if err != nil {
		// The default track is a compile-time constant; failing here means
		// the table above was edited into an invalid state.
		panic(err)
	}
	return b
}
