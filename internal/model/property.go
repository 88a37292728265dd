package model

import "time"

const (
	PropertyStatusActive   = "active"
	PropertyStatusPending  = "pending"
	PropertyStatusSold     = "sold"
	PropertyStatusRented   = "rented"
	PropertyStatusInactive = "inactive"
)

type Property struct {
	ID          string `db:"id" json:"id"`
	BrokerID    string `db:"broker_id" json:"brokerId"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`

	PropertyType string  `db:"property_type" json:"propertyType"` // residential/commercial/land/luxury
	ListingType  string  `db:"listing_type" json:"listingType"`   // sale/rent
	Price        float64 `db:"price" json:"price"`

	// Location
	Address   string   `db:"address" json:"address"`
	City      string   `db:"city" json:"city"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`

	// Specifications
	Bedrooms  int     `db:"bedrooms" json:"bedrooms"`
	Bathrooms int     `db:"bathrooms" json:"bathrooms"`
	Area      float64 `db:"area" json:"area"` // square feet

	// Facilities — отдельные boolean-колонки, чтобы фильтровать по индексам
	ParkingSlot    bool `db:"parking_slot" json:"parkingSlot"`
	Wifi           bool `db:"wifi" json:"wifi"`
	Security       bool `db:"security" json:"security"`
	Kitchen        bool `db:"kitchen" json:"kitchen"`
	AC             bool `db:"ac" json:"ac"`
	SwimmingPool   bool `db:"swimming_pool" json:"swimmingPool"`
	Gym            bool `db:"gym" json:"gym"`
	PetAllowed     bool `db:"pet_allowed" json:"petAllowed"`
	HomeTheater    bool `db:"home_theater" json:"homeTheater"`
	Spa            bool `db:"spa" json:"spa"`
	Elevator       bool `db:"elevator" json:"elevator"`
	ConferenceRoom bool `db:"conference_room" json:"conferenceRoom"`
	GatedCommunity bool `db:"gated_community" json:"gatedCommunity"`
	WaterSupply    bool `db:"water_supply" json:"waterSupply"`
	Electricity    bool `db:"electricity" json:"electricity"`

	Status     string    `db:"status" json:"status"` // active/pending/sold/rented/inactive
	IsFeatured bool      `db:"is_featured" json:"isFeatured"`
	Views      int       `db:"views" json:"views"`
	Inquiries  int       `db:"inquiries" json:"inquiries"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// PropertyWithBroker — объявление вместе с краткой карточкой брокера и владельца.
type PropertyWithBroker struct {
	Property
	BrokerUserID     string `db:"broker_user_id" json:"-"`
	BrokerCompany    string `db:"broker_company" json:"brokerCompany"`
	BrokerLicense    string `db:"broker_license" json:"brokerLicense"`
	BrokerExperience int    `db:"broker_experience" json:"brokerExperience"`
	BrokerName       string `db:"broker_name" json:"brokerName"`
	BrokerEmail      string `db:"broker_email" json:"brokerEmail"`
	BrokerPhone      string `db:"broker_phone" json:"brokerPhone"`
}

// BrokerPropertyStats — агрегаты для дашборда брокера.
type BrokerPropertyStats struct {
	TotalProperties int `db:"total_properties" json:"totalProperties"`
	ActiveListings  int `db:"active_listings" json:"activeListings"`
	TotalViews      int `db:"total_views" json:"totalViews"`
	Inquiries       int `db:"inquiries" json:"inquiries"`
}

// VisitRequest — заявка на просмотр объекта.
type VisitRequest struct {
	ID         string    `db:"id" json:"id"`
	PropertyID string    `db:"property_id" json:"propertyId"`
	UserID     string    `db:"user_id" json:"userId"`
	VisitDate  string    `db:"visit_date" json:"date"`
	VisitTime  string    `db:"visit_time" json:"time"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
