// Package core provides the domain types of the ledger: accounts,
// categories, transactions, budgets and recurring templates, together
// with their validation rules and the shared error taxonomy.
package core

// Icon is a closed set of category glyphs. The store only cares about
// the icon's identity; rendering metadata (the emoji fallback) lives in
// the registry below so presentation layers never need a string-keyed
// lookup of their own.
type Icon string

const (
	IconUtensils    Icon = "Utensils"
	IconHome        Icon = "Home"
	IconCar         Icon = "Car"
	IconGamepad     Icon = "Gamepad2"
	IconBanknote    Icon = "Banknote"
	IconShoppingBag Icon = "ShoppingBag"
	IconCoffee      Icon = "Coffee"
	IconSmartphone  Icon = "Smartphone"
	IconGift        Icon = "Gift"
	IconHeart       Icon = "Heart"
	IconBriefcase   Icon = "Briefcase"
	IconZap         Icon = "Zap"
	IconBus         Icon = "Bus"
	IconPlane       Icon = "Plane"
	IconHelpCircle  Icon = "HelpCircle"
)

var iconEmoji = map[Icon]string{
	IconUtensils:    "🍔",
	IconHome:        "🏠",
	IconCar:         "🚗",
	IconGamepad:     "🎮",
	IconBanknote:    "💰",
	IconShoppingBag: "🛍️",
	IconCoffee:      "☕",
	IconSmartphone:  "📱",
	IconGift:        "🎁",
	IconHeart:       "❤️",
	IconBriefcase:   "💼",
	IconZap:         "⚡",
	IconBus:         "🚌",
	IconPlane:       "✈️",
	IconHelpCircle:  "❓",
}

func (i Icon) Valid() bool {
	_, ok := iconEmoji[i]
	return ok
}

// Emoji returns the rendering fallback for the icon. Unknown icons
// render as the HelpCircle glyph.
func (i Icon) Emoji() string {
	if e, ok := iconEmoji[i]; ok {
		return e
	}
	return iconEmoji[IconHelpCircle]
}

// Normalize maps unknown icon names onto HelpCircle so records imported
// from older backups stay renderable.
func (i Icon) Normalize() Icon {
	if i.Valid() {
		return i
	}
	return IconHelpCircle
}
