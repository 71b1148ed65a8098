package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Mark
	Folder
	Video
	Play
	Pause
	Ended
	Emergency
	Parking
	Combine
	Search
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "+",
		kaomoji: "(^_^)",
		squares: "▣",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "x",
		kaomoji: "(x_x)",
		squares: "▨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(o_o)",
		squares: "◫",
	},
	Mark: {
		emoji:   "✔",
		nerd:    "",
		plain:   "*",
		kaomoji: "(*)",
		squares: "■",
	},
	Folder: {
		emoji:   "📁",
		nerd:    "",
		plain:   "/",
		kaomoji: "[ ]",
		squares: "□",
	},
	Video: {
		emoji:   "🎞",
		nerd:    "",
		plain:   ">",
		kaomoji: "(>_)",
		squares: "▤",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(>‿>)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸",
		nerd:    "",
		plain:   "||",
		kaomoji: "(-_-)",
		squares: "▥",
	},
	Ended: {
		emoji:   "⏹",
		nerd:    "",
		plain:   "[]",
		kaomoji: "(._.)",
		squares: "■",
	},
	Emergency: {
		emoji:   "🚨",
		nerd:    "",
		plain:   "!",
		kaomoji: "(!_!)",
		squares: "◩",
	},
	Parking: {
		emoji:   "🅿️",
		nerd:    "",
		plain:   "P",
		kaomoji: "(P_P)",
		squares: "◪",
	},
	Combine: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "&",
		kaomoji: "(o-o)",
		squares: "▦",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(?_?)",
		squares: "▧",
	},
}
