package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionMQTTConnected      = "mqtt_connected"
	ActionMQTTConnectionLost = "mqtt_connection_lost"
	ActionMQTTMessage        = "mqtt_message"

	ActionHandleReading  = "handle_reading"
	ActionArchiveReading = "archive_reading"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"
)
