package core

// Categories lists the purchase categories offered by the form. Stored
// values are these canonical names; the UI shows them as-is in both
// languages.
var Categories = []string{
	"Groceries",
	"Drugstore",
	"Electronics",
	"Entertainment",
	"Restaurants",
	"Transport",
	"Clothing",
	"Travel",
	"Health",
	"Household",
	"Other",
}
