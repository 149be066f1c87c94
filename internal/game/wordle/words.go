package wordle

// dictionary doubles as the guess whitelist and the target pool. Targets
// are drawn from it with the room's seeded source.
var dictionary = []string{
	"about", "above", "abuse", "actor", "adapt", "admit", "adopt", "after",
	"again", "agent", "agree", "ahead", "alarm", "album", "alert", "alike",
	"alive", "allow", "alone", "along", "alter", "among", "anger", "angle",
	"angry", "apart", "apple", "apply", "arena", "argue", "arise", "armor",
	"array", "arrow", "aside", "asset", "audio", "audit", "avoid", "awake",
	"award", "aware", "badly", "baker", "bases", "basic", "basis", "beach",
	"began", "begin", "being", "below", "bench", "billy", "birth", "black",
	"blame", "blank", "blast", "blind", "block", "blood", "bloom", "board",
	"boast", "bonus", "boost", "booth", "bound", "brain", "brand", "brave",
	"bread", "break", "breed", "brick", "bride", "brief", "bring", "broad",
	"broke", "brown", "brush", "build", "built", "bunch", "burst", "buyer",
	"cabin", "cable", "candy", "carry", "catch", "cause", "chain", "chair",
	"chaos", "charm", "chart", "chase", "cheap", "check", "chest", "chief",
	"child", "china", "chose", "civil", "claim", "class", "clean", "clear",
	"click", "cliff", "climb", "clock", "close", "cloth", "cloud", "coach",
	"coast", "could", "count", "court", "cover", "craft", "crane", "crash",
	"crazy", "cream", "crime", "cross", "crowd", "crown", "crude", "curve",
	"cycle", "daily", "dance", "dated", "dealt", "death", "debut", "delay",
	"depth", "doing", "doubt", "dozen", "draft", "drama", "drank", "drawn",
	"dream", "dress", "drill", "drink", "drive", "drove", "dying", "eager",
	"early", "earth", "eight", "elite", "empty", "enemy", "enjoy", "enter",
	"entry", "equal", "error", "event", "every", "exact", "exist", "extra",
	"faith", "false", "fault", "fiber", "field", "fifth", "fifty", "fight",
	"final", "first", "fixed", "flame", "flash", "fleet", "floor", "fluid",
	"focus", "force", "forth", "forty", "forum", "found", "frame", "frank",
	"fraud", "fresh", "front", "fruit", "fully", "funny", "giant", "given",
	"glass", "globe", "glory", "grace", "grade", "grand", "grant", "grass",
	"grave", "great", "green", "gross", "group", "grown", "guard", "guess",
	"guest", "guide", "happy", "harsh", "heart", "heavy", "hence", "honey",
	"horse", "hotel", "house", "human", "ideal", "image", "imply", "index",
	"inner", "input", "issue", "joint", "judge", "juice", "knife", "knock",
	"known", "label", "large", "laser", "later", "laugh", "layer", "learn",
	"lease", "least", "leave", "legal", "lemon", "level", "light", "limit",
	"local", "logic", "loose", "lover", "lower", "lucky", "lunch", "magic",
	"major", "maker", "march", "match", "maybe", "mayor", "meant", "medal",
	"media", "mercy", "metal", "meter", "might", "minor", "minus", "mixed",
	"model", "money", "month", "moral", "motor", "mount", "mouse", "mouth",
	"movie", "music", "naive", "nerve", "never", "newly", "night", "noise",
	"north", "noted", "novel", "nurse", "occur", "ocean", "offer", "often",
	"olive", "onion", "order", "other", "ought", "outer", "owner", "paint",
	"panel", "paper", "party", "patch", "pause", "peace", "pearl", "phase",
	"phone", "photo", "piano", "piece", "pilot", "pitch", "place", "plain",
	"plane", "plant", "plate", "point", "pound", "power", "press", "price",
	"pride", "prime", "print", "prior", "prize", "proof", "proud", "prove",
	"queen", "quick", "quiet", "quite", "radio", "raise", "range", "rapid",
	"ratio", "reach", "ready", "realm", "rebel", "refer", "relax", "reply",
	"rider", "ridge", "right", "rigid", "risky", "rival", "river", "robot",
	"rocky", "roman", "rough", "round", "route", "royal", "rural", "salad",
	"scale", "scene", "scope", "score", "sense", "serve", "seven", "shade",
	"shake", "shall", "shape", "share", "sharp", "sheep", "sheet", "shelf",
	"shell", "shift", "shine", "shirt", "shock", "shoot", "shore", "short",
	"shown", "sight", "silly", "since", "sixth", "sixty", "sized", "skill",
	"slate", "sleep", "slice", "slide", "small", "smart", "smile", "smoke",
	"snake", "solar", "solid", "solve", "sorry", "sound", "south", "space",
	"spare", "speak", "speed", "spend", "spent", "split", "spoke", "sport",
	"staff", "stage", "stand", "start", "state", "steam", "steel", "stick",
	"still", "stock", "stone", "stood", "store", "storm", "story", "strip",
	"stuck", "study", "stuff", "style", "sugar", "suite", "sunny", "super",
	"sweet", "table", "taken", "taste", "teach", "thank", "theft", "theme",
	"there", "these", "thick", "thing", "think", "third", "those", "three",
	"threw", "throw", "tiger", "tight", "timer", "tired", "title", "today",
	"token", "topic", "total", "touch", "tough", "tower", "track", "trade",
	"trail", "train", "treat", "trend", "trial", "tribe", "trick", "tried",
	"truck", "truly", "trust", "truth", "twice", "uncle", "under", "union",
	"unite", "unity", "until", "upper", "upset", "urban", "usage", "usual",
	"valid", "value", "video", "virus", "visit", "vital", "vivid", "voice",
	"waste", "watch", "water", "wheel", "where", "which", "while", "white",
	"whole", "whose", "woman", "women", "world", "worry", "worse", "worst",
	"worth", "would", "wound", "write", "wrong", "wrote", "young", "youth",
}

var dictionarySet = func() map[string]bool {
	m := make(map[string]bool, len(dictionary))
	for _, w := range dictionary {
		m[w] = true
	}
	return m
}()
