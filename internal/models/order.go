package models

type OrderStatus string

const (
	StatusReceived       OrderStatus = "recebido"
	StatusPreparing      OrderStatus = "preparando"
	StatusOutForDelivery OrderStatus = "saiu_para_entrega"
	StatusDelivered      OrderStatus = "entregue"
	StatusCanceled       OrderStatus = "cancelado"
)

// OrderSummary carries what a status email needs to know about an order.
type OrderSummary struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Total         float64
}
