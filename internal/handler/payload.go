package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mfcarvalho/orders-api/internal/domain/order"
)

// The wire format keeps the legacy external key names (numeroPedido,
// valorTotal, dataCriacao, idItem, quantidadeItem, valorItem) on requests,
// while read responses use the internal attribute names. The translation
// lives entirely in this file so it can be tested without persistence.

// errInvalidProductRef is returned when idItem is not an integer.
var errInvalidProductRef = errors.New("idItem must be an integer")

// productRef is a product identifier that accepts both JSON strings and JSON
// numbers, but rejects anything that does not parse as a base-10 integer.
type productRef int64

func (p *productRef) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errInvalidProductRef
	}
	*p = productRef(n)
	return nil
}

// orderPayload is the external request body for create and replace.
type orderPayload struct {
	NumeroPedido string          `json:"numeroPedido"`
	ValorTotal   decimal.Decimal `json:"valorTotal"`
	DataCriacao  string          `json:"dataCriacao"`
	Items        []itemPayload   `json:"items"`
}

type itemPayload struct {
	IDItem         productRef      `json:"idItem"`
	QuantidadeItem int             `json:"quantidadeItem"`
	ValorItem      decimal.Decimal `json:"valorItem"`
}

// orderView is the response body for get, list, and replace, using the
// internal attribute names. Monetary fields are emitted as JSON numbers.
type orderView struct {
	OrderID      string     `json:"orderId"`
	Value        float64    `json:"value"`
	CreationDate string     `json:"creationDate"`
	Items        []itemView `json:"items"`
}

type itemView struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// decodeOrderPayload parses an external order payload, applying the
// field-name translation and the idItem integer coercion.
func decodeOrderPayload(body []byte) (*order.Order, error) {
	var p orderPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return payloadToOrder(p), nil
}

// payloadToOrder maps the external payload shape onto the domain model.
func payloadToOrder(p orderPayload) *order.Order {
	items := make([]order.Item, len(p.Items))
	for i, item := range p.Items {
		items[i] = order.Item{
			ProductID: int64(item.IDItem),
			Quantity:  item.QuantidadeItem,
			Price:     item.ValorItem,
		}
	}
	return &order.Order{
		OrderID:      p.NumeroPedido,
		Value:        p.ValorTotal,
		CreationDate: p.DataCriacao,
		Items:        items,
	}
}

// orderToView maps the domain model onto the internal-name response shape.
func orderToView(o order.Order) orderView {
	items := make([]itemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = itemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		}
	}
	return orderView{
		OrderID:      o.OrderID,
		Value:        o.Value.InexactFloat64(),
		CreationDate: o.CreationDate,
		Items:        items,
	}
}
