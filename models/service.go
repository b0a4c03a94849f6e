package models

// Service is a catalog entry offered on the marketplace. Sub-item prices
// are stored as decimal strings and parsed at pricing time.
type Service struct {
	ID          string       `bson:"id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	SubServices []SubService `bson:"sub_services" json:"subServices"`
}

// SubService is a selectable sub-item of a Service.
type SubService struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Price string `bson:"price" json:"price"`
}
