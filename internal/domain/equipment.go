package domain

import "time"

type EquipmentCategory string

const (
	CategoryConstruction EquipmentCategory = "construction"
	CategoryGarden       EquipmentCategory = "garden"
	CategoryPower        EquipmentCategory = "power"
	CategoryCamping      EquipmentCategory = "camping"
	CategoryOther        EquipmentCategory = "other"
)

type Equipment struct {
	ID        string            `json:"id" firestore:"-"`
	OwnerID   string            `json:"ownerId" firestore:"ownerId"`
	Name      string            `json:"name" firestore:"name"`
	Price     float64           `json:"price" firestore:"price"` // per day
	Stock     int64             `json:"stock" firestore:"stock"`
	Category  EquipmentCategory `json:"category" firestore:"category"`
	Detail    string            `json:"detail" firestore:"detail"`
	Image     string            `json:"image" firestore:"image"`
	CreatedAt time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

// ApplyDefaults fills the fallback values the frontend expects for
// documents written before the schema settled.
func (e *Equipment) ApplyDefaults() {
	if e.Name == "" {
		e.Name = "Untitled"
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if e.Image == "" {
		e.Image = "/images/placeholder.png"
	}
	if e.Detail == "" {
		e.Detail = "No description"
	}
}
