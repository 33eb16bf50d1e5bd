package model

type Treatment struct {
	Name      string   `json:"name" bson:"_id" validate:"required,min=2,max=100"`
	BasePrice int64    `json:"base_price" bson:"base_price" validate:"required,gt=0"`
	Slots     []string `json:"slots" bson:"slots" validate:"required,min=1,max=96,dive,required,max=50"`
}

// HasSlot reports whether slot is part of the treatment's daily template.
func (t *Treatment) HasSlot(slot string) bool {
	for _, s := range t.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

type TreatmentSummary struct {
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
}

type TreatmentAvailability struct {
	Treatment string   `json:"treatment"`
	BasePrice int64    `json:"base_price"`
	FreeSlots []string `json:"free_slots"`
}
