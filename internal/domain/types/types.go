package types

type ServiceMode string

// Location Service - verifies reported GPS fixes against target addresses and keeps the last verified location
const (
	LocationService ServiceMode = "location-service"
)

// ProductivityStatus is the ordinal proximity level of a verification.
type ProductivityStatus string

func (s ProductivityStatus) String() string {
	return string(s)
}

const (
	StatusGreen  ProductivityStatus = "GREEN"
	StatusYellow ProductivityStatus = "YELLOW"
	StatusRed    ProductivityStatus = "RED"
)

// ProximityDetails mirrors a ProductivityStatus as three mutually exclusive flags.
type ProximityDetails struct {
	AtLocation bool `json:"at_location"`
	Nearby     bool `json:"nearby"`
	FarAway    bool `json:"far_away"`
}

func (s ProductivityStatus) Details() ProximityDetails {
	return ProximityDetails{
		AtLocation: s == StatusGreen,
		Nearby:     s == StatusYellow,
		FarAway:    s == StatusRed,
	}
}

// Storage backends
type StorageDriver string

const (
	StoragePostgres StorageDriver = "postgres"
	StorageSQLite   StorageDriver = "sqlite"
	StorageRedis    StorageDriver = "redis"
	StorageDynamoDB StorageDriver = "dynamodb"
)

// Event publishers
type EventsDriver string

const (
	EventsNone     EventsDriver = "none"
	EventsRabbitMQ EventsDriver = "rabbitmq"
	EventsMQTT     EventsDriver = "mqtt"
)

// Geocoding providers
type GeocoderProvider string

const (
	ProviderNominatim  GeocoderProvider = "nominatim"
	ProviderLocationIQ GeocoderProvider = "locationiq"
)
