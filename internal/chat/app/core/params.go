package core

type ChatParams struct {
	Port  int
	Store string
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	// in seconds for db response
	WaitTime = 20

	MaxMessageLen = 1000
	MaxUserIDLen  = 100

	// Quantity tokens above this are not read as quantities.
	MaxItemQuantity = 99

	// QuantityWindow is how many characters around an item name are searched for its quantity.
	QuantityWindow = 20

	ExchangeOrders       = "canteen_orders"
	RoutingKeyOrderReady = "kitchen.order.received"
)
