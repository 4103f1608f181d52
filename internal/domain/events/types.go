package events

// Category clasifica el evento. "none" es el default cuando el
// organizador no elige nada.
type Category string

const (
	CategoryWedding      Category = "wedding"
	CategoryGraduation   Category = "graduation"
	CategoryBirthday     Category = "birthday"
	CategoryReunion      Category = "reunion"
	CategoryHolidayCards Category = "holiday_cards"
	CategoryOther        Category = "other"
	CategoryNone         Category = "none"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryWedding, CategoryGraduation, CategoryBirthday,
		CategoryReunion, CategoryHolidayCards, CategoryOther, CategoryNone:
		return true
	}
	return false
}
