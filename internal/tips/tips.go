package tips

// All is the static list of farming tips
var All = []string{
	"Rotate crops each season to break disease cycles in the soil.",
	"Water at the base of plants early in the morning so leaves dry quickly.",
	"Remove and destroy infected leaves; do not compost them.",
	"Space plants to keep air moving through the canopy.",
	"Disinfect pruning tools between plants when disease is present.",
	"Choose resistant varieties when replanting an affected field.",
	"Test your soil yearly and correct nutrient deficiencies before planting.",
	"Mulch around plants to stop soil splashing spores onto lower leaves.",
	"Scout fields weekly; early detection keeps treatment cheap.",
	"Apply fungicides preventively before rainy periods, following label rates.",
}

// Pick returns a tip chosen by intn, which must return a value in [0, n)
// like math/rand's Intn. A nil intn returns the first tip.
func Pick(intn func(n int) int) string {
	return PickFrom(All, intn)
}

// PickFrom chooses one entry of list using intn
func PickFrom(list []string, intn func(n int) int) string {
	if len(list) == 0 {
		return ""
	}
	if intn == nil {
		return list[0]
	}
	i := intn(len(list))
	if i < 0 || i >= len(list) {
		i = 0
	}
	return list[i]
}
