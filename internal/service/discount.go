package service

// discountTiers - пороги размера команды, от большего к меньшему
var discountTiers = []struct {
	minTeamSize int
	rate        float64
}{
	{100, 0.35},
	{50, 0.30},
	{15, 0.25},
	{5, 0.20},
}

// ApplyDiscount возвращает скидку по количеству активных участников команды
func ApplyDiscount(teamSize int) float64 {
	for _, tier := range discountTiers {
		if teamSize >= tier.minTeamSize {
			return tier.rate
		}
	}
	return 0
}

// UnitPrice - цена одного кредита с учетом скидки
func UnitPrice(basePrice, discount float64) float64 {
	return basePrice * (1 - discount)
}
