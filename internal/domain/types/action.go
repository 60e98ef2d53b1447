package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionMQTTConnected           = "mqtt_connected"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"

	ActionVerifyLocation  = "verify_location"
	ActionLocationHistory = "location_history"
	ActionGeocodeAddress  = "geocode_address"
	ActionPublishEvent    = "publish_location_event"
)
