package game

// Category is a named word list players draw the secret word from.
type Category struct {
	Name  string
	Words []string
}

// DefaultCategories returns the built-in word catalog. The memory store
// serves these directly; cmd/seed-words loads them into Postgres.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "Animals",
			Words: []string{
				"Dog", "Cat", "Elephant", "Lion", "Tiger", "Bear", "Eagle", "Shark",
				"Dolphin", "Penguin", "Giraffe", "Zebra", "Monkey", "Snake", "Rabbit",
			},
		},
		{
			Name: "Food",
			Words: []string{
				"Pizza", "Burger", "Sushi", "Pasta", "Tacos", "Ice Cream", "Chocolate",
				"Salad", "Steak", "Sandwich", "Soup", "Cake", "Cookies", "Apple", "Banana",
			},
		},
		{
			Name: "Movies",
			Words: []string{
				"Titanic", "Avatar", "Inception", "Frozen", "Jaws", "Matrix", "Gladiator",
				"Joker", "Parasite", "Shrek", "Up", "Coco", "Moana", "Deadpool", "Interstellar",
			},
		},
		{
			Name: "Sports",
			Words: []string{
				"Soccer", "Basketball", "Tennis", "Golf", "Swimming", "Boxing", "Cricket",
				"Rugby", "Hockey", "Baseball", "Volleyball", "Skiing", "Surfing", "Cycling", "Running",
			},
		},
	}
}
