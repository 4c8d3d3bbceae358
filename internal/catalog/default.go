package catalog

// DefaultVersion is the version of the built-in catalog.
const DefaultVersion = "1.4.0"

// Default returns the built-in catalog used when no catalog file is
// configured. Config ids are stable across releases; removing an entry
// retires it for users on the next sync.
func Default() *Static {
	return &Static{
		Ver: DefaultVersion,
		Expense: []Entry{
			{ConfigID: 1, Name: "Food & Dining", Icon: "utensils", Color: "#FF6B6B", SortOrder: 1, Subcategories: []Subentry{
				{ConfigID: 101, Name: "Groceries", Icon: "cart", Color: "#FF6B6B"},
				{ConfigID: 102, Name: "Restaurants", Icon: "restaurant", Color: "#FF8787"},
				{ConfigID: 103, Name: "Coffee & Snacks", Icon: "coffee", Color: "#FFA8A8"},
			}},
			{ConfigID: 2, Name: "Transport", Icon: "bus", Color: "#4DABF7", SortOrder: 2, Subcategories: []Subentry{
				{ConfigID: 201, Name: "Public Transit", Icon: "train", Color: "#4DABF7"},
				{ConfigID: 202, Name: "Fuel", Icon: "fuel", Color: "#74C0FC"},
				{ConfigID: 203, Name: "Taxi & Rideshare", Icon: "car", Color: "#A5D8FF"},
			}},
			{ConfigID: 3, Name: "Shopping", Icon: "bag", Color: "#DA77F2", SortOrder: 3, Subcategories: []Subentry{
				{ConfigID: 301, Name: "Clothing", Icon: "shirt", Color: "#DA77F2"},
				{ConfigID: 302, Name: "Electronics", Icon: "device", Color: "#E599F7"},
				{ConfigID: 303, Name: "Household", Icon: "home", Color: "#F3D9FA"},
			}},
			{ConfigID: 4, Name: "Entertainment", Icon: "film", Color: "#FFD43B", SortOrder: 4, Subcategories: []Subentry{
				{ConfigID: 401, Name: "Movies & Shows", Icon: "tv", Color: "#FFD43B"},
				{ConfigID: 402, Name: "Games", Icon: "gamepad", Color: "#FFE066"},
				{ConfigID: 403, Name: "Sports & Fitness", Icon: "bike", Color: "#FFF3BF"},
			}},
			{ConfigID: 5, Name: "Housing", Icon: "building", Color: "#69DB7C", SortOrder: 5, Subcategories: []Subentry{
				{ConfigID: 501, Name: "Rent & Mortgage", Icon: "key", Color: "#69DB7C"},
				{ConfigID: 502, Name: "Utilities", Icon: "bolt", Color: "#8CE99A"},
				{ConfigID: 503, Name: "Internet & Phone", Icon: "wifi", Color: "#B2F2BB"},
			}},
			{ConfigID: 6, Name: "Health", Icon: "heart", Color: "#F783AC", SortOrder: 6, Subcategories: []Subentry{
				{ConfigID: 601, Name: "Medical", Icon: "stethoscope", Color: "#F783AC"},
				{ConfigID: 602, Name: "Pharmacy", Icon: "pill", Color: "#FAA2C1"},
			}},
			{ConfigID: 7, Name: "Education", Icon: "book", Color: "#9775FA", SortOrder: 7, Subcategories: []Subentry{
				{ConfigID: 701, Name: "Courses", Icon: "graduation", Color: "#9775FA"},
				{ConfigID: 702, Name: "Books", Icon: "bookmark", Color: "#B197FC"},
			}},
			{ConfigID: 8, Name: "Travel", Icon: "plane", Color: "#3BC9DB", SortOrder: 8, Subcategories: []Subentry{
				{ConfigID: 801, Name: "Flights", Icon: "plane", Color: "#3BC9DB"},
				{ConfigID: 802, Name: "Hotels", Icon: "bed", Color: "#66D9E8"},
			}},
			{ConfigID: 9, Name: "Other Expense", Icon: "dots", Color: "#ADB5BD", SortOrder: 9},
		},
		Income: []Entry{
			{ConfigID: 51, Name: "Salary", Icon: "briefcase", Color: "#40C057", SortOrder: 1},
			{ConfigID: 52, Name: "Bonus", Icon: "gift", Color: "#94D82D", SortOrder: 2},
			{ConfigID: 53, Name: "Investment", Icon: "chart", Color: "#15AABF", SortOrder: 3, Subcategories: []Subentry{
				{ConfigID: 5301, Name: "Dividends", Icon: "coins", Color: "#15AABF"},
				{ConfigID: 5302, Name: "Interest", Icon: "percent", Color: "#3BC9DB"},
			}},
			{ConfigID: 54, Name: "Side Income", Icon: "wrench", Color: "#FAB005", SortOrder: 4},
			{ConfigID: 55, Name: "Other Income", Icon: "dots", Color: "#ADB5BD", SortOrder: 5},
		},
	}
}
