package quiz

// question is one multiple choice entry; answer indexes options.
type question struct {
	Text    string
	Options [4]string
	Answer  int
}

var bank = []question{
	{"Which planet is known as the Red Planet?", [4]string{"Venus", "Mars", "Jupiter", "Mercury"}, 1},
	{"How many continents are there on Earth?", [4]string{"five", "six", "seven", "eight"}, 2},
	{"What is the largest ocean?", [4]string{"Atlantic", "Indian", "Arctic", "Pacific"}, 3},
	{"Which gas do plants absorb from the air?", [4]string{"oxygen", "carbon dioxide", "nitrogen", "helium"}, 1},
	{"What is the capital of Japan?", [4]string{"Kyoto", "Osaka", "Tokyo", "Nagoya"}, 2},
	{"How many strings does a standard violin have?", [4]string{"three", "four", "five", "six"}, 1},
	{"Which metal is liquid at room temperature?", [4]string{"mercury", "iron", "aluminium", "zinc"}, 0},
	{"What is the longest river in the world?", [4]string{"Amazon", "Nile", "Yangtze", "Mississippi"}, 1},
	{"How many sides does a hexagon have?", [4]string{"five", "six", "seven", "eight"}, 1},
	{"Which country gifted the Statue of Liberty to the USA?", [4]string{"England", "Spain", "France", "Italy"}, 2},
	{"What is the chemical symbol for gold?", [4]string{"Go", "Gd", "Ag", "Au"}, 3},
	{"Which animal is the tallest in the world?", [4]string{"elephant", "giraffe", "ostrich", "moose"}, 1},
	{"How many minutes are in a full day?", [4]string{"1240", "1380", "1440", "1520"}, 2},
	{"Which instrument has 88 keys?", [4]string{"organ", "piano", "accordion", "harpsichord"}, 1},
	{"What is the smallest prime number?", [4]string{"zero", "one", "two", "three"}, 2},
	{"Which sea creature has three hearts?", [4]string{"dolphin", "octopus", "shark", "whale"}, 1},
	{"What is the capital of Canada?", [4]string{"Toronto", "Vancouver", "Montreal", "Ottawa"}, 3},
	{"Which planet has the most moons?", [4]string{"Earth", "Mars", "Saturn", "Neptune"}, 2},
	{"How many bones does an adult human have?", [4]string{"186", "206", "226", "246"}, 1},
	{"Which language has the most native speakers?", [4]string{"English", "Hindi", "Spanish", "Mandarin"}, 3},
	{"What do bees collect from flowers?", [4]string{"pollen and nectar", "water", "leaves", "seeds"}, 0},
	{"Which is the smallest country in the world?", [4]string{"Monaco", "Malta", "Vatican City", "San Marino"}, 2},
	{"How many colors are in a rainbow?", [4]string{"five", "six", "seven", "eight"}, 2},
	{"Which element does the symbol O stand for?", [4]string{"osmium", "oxygen", "oganesson", "olivine"}, 1},
}
