package codenames

// wordBank is the pool the 25 board words are drawn from.
var wordBank = []string{
	"anchor", "angel", "apple", "arrow", "bank", "barrel", "beach", "bear",
	"bell", "berry", "board", "bomb", "bottle", "bridge", "brush", "button",
	"cable", "cake", "candle", "castle", "cat", "chain", "chair", "charge",
	"check", "chest", "circle", "cloud", "club", "code", "comet", "compass",
	"copper", "court", "cover", "crane", "crown", "cycle", "dance", "deck",
	"diamond", "dragon", "dream", "drill", "drop", "eagle", "engine", "field",
	"figure", "file", "film", "fire", "fish", "flag", "flood", "flute",
	"forest", "fork", "frame", "garden", "ghost", "giant", "glass", "glove",
	"gold", "grass", "green", "guard", "hammer", "harbor", "heart", "honey",
	"hook", "horn", "horse", "hotel", "island", "jet", "key", "king",
	"kite", "knight", "lab", "lake", "laser", "lawyer", "lemon", "light",
	"lion", "lock", "log", "march", "mark", "match", "mine", "mirror",
	"moon", "mouse", "nail", "needle", "net", "night", "note", "nut",
	"ocean", "office", "oil", "orange", "organ", "palace", "palm", "paper",
	"park", "pearl", "piano", "pilot", "pipe", "pirate", "plane", "plate",
	"pool", "port", "press", "prince", "queen", "rabbit", "rail", "rain",
	"ring", "river", "robot", "rock", "rose", "ruler", "salt", "scale",
	"school", "screen", "seal", "shadow", "shark", "shield", "ship", "shoe",
	"shop", "silver", "sink", "snow", "sound", "spider", "spring", "spy",
	"star", "stick", "stone", "storm", "string", "sun", "table", "tail",
	"teacher", "temple", "thief", "tiger", "time", "torch", "tower", "track",
	"train", "trap", "tree", "trunk", "turtle", "wall", "watch", "water",
	"wave", "web", "well", "whale", "wheel", "wind", "window", "wolf",
}
