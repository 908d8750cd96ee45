package compare

// Direction says which extremum wins an attribute.
type Direction int

const (
	PreferMin Direction = iota
	PreferMax
)

// AttributeRule fixes the winning direction for one comparison attribute.
type AttributeRule struct {
	Attribute string
	Prefer    Direction
}

// DefaultRules covers the comparison table's highlighted attributes: lowest
// price wins, highest carat wins.
var DefaultRules = []AttributeRule{
	{Attribute: "price", Prefer: PreferMin},
	{Attribute: "carat", Prefer: PreferMax},
}

// BestValues computes, per attribute, the ids of every product tying the
// extremum. All tying products are highlighted, not a single winner.
func BestValues(items []Product, rules []AttributeRule) map[string][]string {
	result := make(map[string][]string, len(rules))
	for _, rule := range rules {
		var best float64
		var winners []string
		found := false
		for _, p := range items {
			value, ok := attributeValue(p, rule.Attribute)
			if !ok {
				continue
			}
			switch {
			case !found:
				best, winners, found = value, []string{p.ID}, true
			case value == best:
				winners = append(winners, p.ID)
			case rule.Prefer == PreferMin && value < best:
				best, winners = value, []string{p.ID}
			case rule.Prefer == PreferMax && value > best:
				best, winners = value, []string{p.ID}
			}
		}
		if found {
			result[rule.Attribute] = winners
		}
	}
	return result
}

func attributeValue(p Product, attribute string) (float64, bool) {
	if attribute == "price" {
		return p.Price, true
	}
	value, ok := p.Data[attribute]
	return value, ok
}
