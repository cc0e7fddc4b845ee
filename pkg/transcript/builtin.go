package transcript

// BuiltinRules returns the stock correction table for tabletop session
// audio: terms the ASR engine reliably mishears. Custom campaign
// vocabulary should precede it in the combined rule set; matchAt keeps the
// earlier rule when pattern lengths tie, so the custom rule wins.
func BuiltinRules() Rules {
	return Rules{
		// Races.
		{Pattern: "teefling", Replace: "tiefling"},
		{Pattern: "tifling", Replace: "tiefling"},
		{Pattern: "dragonborne", Replace: "dragonborn"},
		{Pattern: "half orc", Replace: "half-orc"},
		{Pattern: "half elf", Replace: "half-elf"},
		{Pattern: "aasamar", Replace: "aasimar"},
		{Pattern: "assimar", Replace: "aasimar"},
		{Pattern: "genassi", Replace: "genasi"},
		{Pattern: "golioth", Replace: "goliath"},
		{Pattern: "tabaxy", Replace: "tabaxi"},
		{Pattern: "yuan ti", Replace: "yuan-ti"},

		// Common terms.
		{Pattern: "artifcer", Replace: "artificer"},
		{Pattern: "dungeon master", Replace: "Dungeon Master"},
		{Pattern: "game master", Replace: "Game Master"},
		{Pattern: "non player character", Replace: "NPC"},
		{Pattern: "armor class", Replace: "AC"},
		{Pattern: "hit points", Replace: "HP"},
		{Pattern: "dungens and dragons", Replace: "Dungeons & Dragons"},
		{Pattern: "d and d", Replace: "D&D"},
		{Pattern: "dnd", Replace: "D&D"},
		{Pattern: "dee and dee", Replace: "D&D"},
		{Pattern: "natural 20", Replace: "nat 20"},
		{Pattern: "natural 1", Replace: "nat 1"},
		{Pattern: "critical hit", Replace: "crit"},
		{Pattern: "critical miss", Replace: "crit fail"},

		// Spells the engine tends to split or lowercase.
		{Pattern: "fireball", Replace: "Fireball"},
		{Pattern: "magic missile", Replace: "Magic Missile"},
		{Pattern: "eldritch blast", Replace: "Eldritch Blast"},
		{Pattern: "cure wounds", Replace: "Cure Wounds"},
		{Pattern: "healing word", Replace: "Healing Word"},
		{Pattern: "thunder wave", Replace: "Thunderwave"},
		{Pattern: "counter spell", Replace: "Counterspell"},
		{Pattern: "dispel magic", Replace: "Dispel Magic"},

		// Actions.
		{Pattern: "attack of opportunity", Replace: "opportunity attack"},
		{Pattern: "death saving throw", Replace: "death save"},
	}
}
