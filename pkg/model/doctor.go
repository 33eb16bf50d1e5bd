package model

// Doctor is a directory entry managed by administrators. Specialty names a
// treatment from the catalog.
type Doctor struct {
	Email     string `json:"email" bson:"_id" validate:"required,email,max=254"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialty string `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
	ImageURL  string `json:"image_url,omitempty" bson:"image_url,omitempty" validate:"omitempty,url,max=2048"`
}
