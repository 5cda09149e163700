package category

// Category is one expense type an employee can pick for a bill. The list is
// a fixed contract with the form's dropdown, not stored data.
type Category struct {
	Name string `json:"name"`
}

// ExpenseTypes is the dropdown content, in display order.
var ExpenseTypes = []Category{
	{Name: "Transports"},
	{Name: "Restaurants et bars"},
	{Name: "Hôtel et logement"},
	{Name: "Services en ligne"},
	{Name: "IT et électronique"},
	{Name: "Equipement et matériel"},
	{Name: "Fournitures de bureau"},
}
