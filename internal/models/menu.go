package models

// MenuItem represents a dish on the menu.
type MenuItem struct {
	ID           string   `json:"id" yaml:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CategoryID   string   `json:"categoryId,omitempty" yaml:"-" gorm:"index;type:varchar(36)"`
	Name         string   `json:"name" yaml:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description  string   `json:"description" yaml:"description" validate:"omitempty,max=500"`
	Price        float64  `json:"price" yaml:"price" validate:"gte=0"`
	PrepTime     string   `json:"prepTime" yaml:"prepTime" gorm:"type:varchar(50)"`
	Image        string   `json:"image" yaml:"image"`
	AvailableQty int      `json:"availableQty" yaml:"availableQty" validate:"gte=0"` // remaining stock for today
	IsAvailable  bool     `json:"isAvailable" yaml:"isAvailable"`
	Addons       []string `json:"addons,omitempty" yaml:"addons,omitempty" gorm:"serializer:json"`
}

// Category groups menu items for display.
type Category struct {
	ID           string     `json:"id" yaml:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string     `json:"name" yaml:"name" gorm:"type:varchar(100)" validate:"required"`
	DisplayOrder int        `json:"-" yaml:"displayOrder,omitempty"`
	Items        []MenuItem `json:"items" yaml:"items" gorm:"foreignKey:CategoryID"`
}

// MenuData is the read-only catalog served to customers.
type MenuData struct {
	RestaurantName string     `json:"restaurantName" yaml:"restaurantName"`
	Categories     []Category `json:"categories" yaml:"categories"`
}

// FindItem returns the menu item with the given id, or nil.
func (m *MenuData) FindItem(id string) *MenuItem {
	if m == nil {
		return nil
	}
	for ci := range m.Categories {
		for ii := range m.Categories[ci].Items {
			if m.Categories[ci].Items[ii].ID == id {
				return &m.Categories[ci].Items[ii]
			}
		}
	}
	return nil
}
