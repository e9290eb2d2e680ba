package catalog

// ProductInput carries the admin product form. Price stays a string so
// free-text values ("₹1,250") go through ParsePrice instead of failing
// form decoding; malformed prices coerce to zero.
type ProductInput struct {
	Name        string `json:"name" schema:"name" validate:"required,min=1,max=255"`
	Type        string `json:"type" schema:"type" validate:"max=255"`
	Sizes       string `json:"sizes" schema:"sizes" validate:"max=255"`
	Price       string `json:"price" schema:"price"`
	Colors      string `json:"colors" schema:"colors" validate:"max=255"`
	Prints      string `json:"prints" schema:"prints" validate:"max=255"`
	Description string `json:"description" schema:"description"`
	ImageURL    string `json:"image_url" schema:"image_url" validate:"omitempty,url"`
}
